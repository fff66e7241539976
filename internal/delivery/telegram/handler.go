package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"github.com/yourusername/catalog-admin/internal/usecase"
)

const (
	maxUploadSize   = 5 * 1024 * 1024
	productsPreview = 30
)

// BotHandler Telegram orqali katalogni boshqarish
type BotHandler struct {
	bot          *tgbotapi.BotAPI
	adminUseCase usecase.AdminUseCase
	catalog      usecase.CatalogUseCase
	copyWriter   repository.CopyWriter // nil bo'lishi mumkin

	sessionMu sync.Mutex
	sessions  map[int64]*usecase.ProductComposer // har bir admin uchun bitta qoralama

	// Admin login kutilayotgan userlar
	awaitingPassword map[int64]bool
	mu               sync.RWMutex
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	adminUseCase usecase.AdminUseCase,
	catalog usecase.CatalogUseCase,
	copyWriter repository.CopyWriter,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		adminUseCase:     adminUseCase,
		catalog:          catalog,
		copyWriter:       copyWriter,
		sessions:         make(map[int64]*usecase.ProductComposer),
		awaitingPassword: make(map[int64]bool),
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	log.Info().Str("bot", h.bot.Self.UserName).Msg("bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("bot stopping")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	userID := message.From.ID

	if h.isAwaitingPassword(userID) && !message.IsCommand() {
		h.handlePasswordInput(ctx, message)
		return
	}

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	h.sendMessage(message.Chat.ID, "Komandalar ro'yxati uchun /help")
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start", "help":
		h.sendMessage(chatID, helpMessage)
		return
	case "admin":
		h.handleAdminCommand(ctx, message)
		return
	}

	// Qolganlari faqat adminlar uchun
	if !h.requireAdmin(ctx, message) {
		return
	}

	switch command {
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "products":
		h.sendMessage(chatID, renderProducts(h.catalog.Products(), h.catalog.State(), productsPreview))
	case "refresh":
		state := h.catalog.Refresh(ctx)
		h.sendMessage(chatID, "🔄 "+state.String())
	case "delete":
		h.handleDeleteCommand(ctx, message, strings.TrimSpace(args))
	case "new":
		h.composerFor(message.From.ID).Reset()
		h.sendMessage(chatID, "📝 Yangi qoralama. /set name ..., /set price ... va /submit")
	case "edit":
		h.handleEditCommand(message, strings.TrimSpace(args))
	case "describe":
		h.handleDescribeCommand(ctx, message)
	case "submit":
		h.handleSubmitCommand(ctx, message)
	case "export":
		h.handleExportCommand(ctx, message)
	case "log":
		h.handleLogCommand(ctx, message)
	default:
		if !composerCommands[command] {
			h.sendMessage(chatID, "Noma'lum komanda. /help yordam uchun.")
			return
		}
		reply, err := runComposerCommand(h.composerFor(message.From.ID), command, args)
		if err != nil {
			h.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		h.sendMessage(chatID, reply)
	}
}

func (h *BotHandler) requireAdmin(ctx context.Context, message *tgbotapi.Message) bool {
	isAdmin, err := h.adminUseCase.IsAdmin(ctx, message.From.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", message.From.ID).Msg("admin check failed")
	}
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "❌ Bu komanda faqat adminlar uchun. /admin bilan kiring.")
		return false
	}
	return true
}

// composerFor foydalanuvchining qoralamasi, kerak bo'lsa yaratiladi
func (h *BotHandler) composerFor(userID int64) *usecase.ProductComposer {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()

	c, ok := h.sessions[userID]
	if !ok {
		c = usecase.NewProductComposer(h.catalog)
		h.sessions[userID] = c
	}
	return c
}

func (h *BotHandler) dropComposer(userID int64) {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()
	delete(h.sessions, userID)
}

// handleAdminCommand admin login boshlash
func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if isAdmin {
		h.sendMessage(message.Chat.ID, "Siz allaqachon admin sifatida tizimga kirgansiz!")
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Admin parolini kiriting:")
}

// handlePasswordInput parol kiritilganini qayta ishlash
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	h.setAwaitingPassword(userID, false)

	// Xabarni o'chirish (xavfsizlik uchun)
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)); err != nil {
		log.Warn().Err(err).Msg("failed to delete password message")
	}

	success, err := h.adminUseCase.Login(ctx, userID, message.Text)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("login failed")
		h.sendMessage(message.Chat.ID, "❌ Login xatosi yuz berdi.")
		return
	}
	if !success {
		h.sendMessage(message.Chat.ID, "❌ Noto'g'ri parol!")
		return
	}

	h.sendMessage(message.Chat.ID, "✅ Admin panelga xush kelibsiz!\n\n"+helpMessage)
}

// handleLogoutCommand admin logout
func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	if err := h.adminUseCase.Logout(ctx, userID); err != nil {
		h.sendMessage(message.Chat.ID, "Logout xatosi.")
		return
	}
	h.dropComposer(userID)
	h.sendMessage(message.Chat.ID, "✅ Admin paneldan chiqdingiz.")
}

func (h *BotHandler) handleDeleteCommand(ctx context.Context, message *tgbotapi.Message, id string) {
	if id == "" {
		h.sendMessage(message.Chat.ID, "Foydalanish: /delete <id>")
		return
	}

	state, err := h.adminUseCase.DeleteProduct(ctx, message.From.ID, id)
	if err != nil {
		h.sendMessage(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if !state.OK() {
		h.sendMessage(message.Chat.ID, "❌ O'chirib bo'lmadi, ro'yxat o'zgarmadi.")
		return
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("🗑 O'chirildi. Qoldi: %d ta", state.Count))
}

func (h *BotHandler) handleEditCommand(message *tgbotapi.Message, id string) {
	product, ok := h.catalog.Get(id)
	if !ok {
		h.sendMessage(message.Chat.ID, "❌ Mahsulot topilmadi. /refresh qilib ko'ring.")
		return
	}

	c := h.composerFor(message.From.ID)
	if err := c.Load(product); err != nil {
		h.sendMessage(message.Chat.ID, "❌ "+err.Error())
		return
	}
	h.sendMessage(message.Chat.ID, renderDraft(c))
}

func (h *BotHandler) handleDescribeCommand(ctx context.Context, message *tgbotapi.Message) {
	if h.copyWriter == nil {
		h.sendMessage(message.Chat.ID, "AI yozuvchi sozlanmagan (GEMINI_API_KEY).")
		return
	}

	c := h.composerFor(message.From.ID)
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	text, err := h.copyWriter.WriteIntroduction(ctx, c.Draft())
	if err != nil {
		log.Error().Err(err).Msg("introduction generation failed")
		h.sendMessage(message.Chat.ID, "❌ Matn yaratib bo'lmadi.")
		return
	}
	c.SetIntroduction(text)
	h.sendMessage(message.Chat.ID, "✍️ introduction:\n"+text)
}

func (h *BotHandler) handleSubmitCommand(ctx context.Context, message *tgbotapi.Message) {
	c := h.composerFor(message.From.ID)
	name := c.Draft().Name

	var (
		id  string
		err error
	)
	if c.Editing() {
		id, err = c.SubmitEdit(ctx)
	} else {
		id, err = c.Submit(ctx)
	}

	switch {
	case errors.Is(err, usecase.ErrSubmitInFlight):
		h.sendMessage(message.Chat.ID, "⏳ Oldingi so'rov hali tugamadi.")
	case usecase.IsValidationError(err):
		h.sendMessage(message.Chat.ID, "❌ "+err.Error())
	case err != nil:
		log.Error().Err(err).Int64("user_id", message.From.ID).Msg("submit failed")
		h.sendMessage(message.Chat.ID, "❌ Saqlab bo'lmadi. Qoralama saqlanib qoldi, /submit bilan qayta urinib ko'ring.")
	default:
		h.adminUseCase.RecordSubmit(ctx, message.From.ID, id, name)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Saqlandi: %s\nid: %s", name, id))
	}
}

func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	data, err := h.adminUseCase.ExportCatalog(ctx, message.From.ID)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		h.sendMessage(message.Chat.ID, "❌ Eksport xatosi.")
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-1504")),
		Bytes: data,
	})
	if _, err := h.bot.Send(doc); err != nil {
		log.Error().Err(err).Msg("failed to send export")
	}
}

func (h *BotHandler) handleLogCommand(ctx context.Context, message *tgbotapi.Message) {
	actions, err := h.adminUseCase.RecentActions(ctx, message.From.ID, 15)
	if err != nil {
		h.sendMessage(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if len(actions) == 0 {
		h.sendMessage(message.Chat.ID, "Hali harakatlar yo'q.")
		return
	}

	var sb strings.Builder
	for _, a := range actions {
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n", a.Timestamp.Format("01-02 15:04"), a.Action, truncateString(a.Details, 80)))
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

// handleDocumentMessage Excel fayl yuborilganda import qilish
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(ctx, message) {
		return
	}

	doc := message.Document
	if doc.FileSize > maxUploadSize {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 5MB dan oshmasligi kerak!")
		return
	}
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		h.sendMessage(message.Chat.ID, "❌ Faqat .xlsx fayllari qabul qilinadi!")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Fayl yuklanmoqda va qayta ishlanmoqda...")

	fileBytes, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		log.Error().Err(err).Msg("file download failed")
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}

	result, err := h.adminUseCase.ImportCatalog(ctx, message.From.ID, fileBytes, doc.FileName)
	if err != nil {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Import xatosi: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Import tugadi: %d ta qo'shildi, %d ta rad etildi\n", len(result.Created), len(result.Failed)))
	for i, issue := range result.Failed {
		if i == 10 {
			sb.WriteString("...\n")
			break
		}
		sb.WriteString(fmt.Sprintf("  qator %d: %v\n", issue.Line, issue.Err))
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(h.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
}

// isAwaitingPassword parol kutilayotganini tekshirish
func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

// setAwaitingPassword parol kutish rejimini o'rnatish
func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncateString(text, 4000))
	if _, err := h.bot.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

const helpMessage = `🛠 Katalog admin bot

/admin - admin sifatida kirish
/logout - chiqish
/products - mahsulotlar ro'yxati
/refresh - store dan qayta yuklash
/delete <id> - mahsulotni o'chirish
/log - oxirgi admin harakatlari

Qoralama:
/new - yangi qoralama
/edit <id> - mavjud mahsulotni tahrirlash
/set <maydon> <qiymat> - name, price, salePrice, cost, stock, weight, category, company, sku, status, introduction, description
/feature add [matn] | set <n> <matn> | rm <n>
/image <url> | /rmimage <n>
/variant name <nom> | options <a, b> | add
/rmvariant <n>
/tag <teg> on|off - new arrival, featured, best seller
/describe - AI bilan introduction yozish
/draft - qoralamani ko'rish
/submit - saqlash

/export - katalogni .xlsx ko'rinishida olish
.xlsx fayl yuborsangiz import qilinadi.`
