package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/usecase"
)

var errUnknownCommand = errors.New("unknown composer command")

// composerCommands composer bilan ishlaydigan komandalar
var composerCommands = map[string]bool{
	"set": true, "feature": true, "image": true, "rmimage": true,
	"variant": true, "rmvariant": true, "tag": true, "draft": true,
}

// runComposerCommand bitta komandani composer ga qo'llash va javob matnini qaytarish.
// Foydalanuvchi indekslari 1 dan boshlanadi.
func runComposerCommand(c *usecase.ProductComposer, command, args string) (string, error) {
	args = strings.TrimSpace(args)

	switch command {
	case "set":
		name, value, _ := strings.Cut(args, " ")
		field, ok := usecase.ParseField(name)
		if !ok {
			return "", fmt.Errorf("noma'lum maydon %q. Maydonlar: %s", name, fieldList())
		}
		if err := c.SetScalar(field, strings.TrimSpace(value)); err != nil {
			return "", err
		}
		reply := fmt.Sprintf("✅ %s = %s", field, fieldValue(c.Draft(), field))
		return reply + enumHint(c.Draft(), field), nil

	case "feature":
		action, rest, _ := strings.Cut(args, " ")
		rest = strings.TrimSpace(rest)
		switch action {
		case "add":
			c.AddFeature()
			n := len(c.Draft().Features)
			if rest != "" {
				if err := c.SetFeature(n-1, rest); err != nil {
					return "", err
				}
			}
			return fmt.Sprintf("✅ Xususiyat #%d qo'shildi", n), nil
		case "set":
			num, text, _ := strings.Cut(rest, " ")
			idx, err := parseIndex(num)
			if err != nil {
				return "", err
			}
			if err := c.SetFeature(idx, strings.TrimSpace(text)); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Xususiyat #%d yangilandi", idx+1), nil
		case "rm":
			idx, err := parseIndex(rest)
			if err != nil {
				return "", err
			}
			if err := c.RemoveFeature(idx); err != nil {
				return "", err
			}
			return fmt.Sprintf("🗑 Xususiyat #%d o'chirildi", idx+1), nil
		}
		return "", fmt.Errorf("foydalanish: /feature add [matn] | set <n> <matn> | rm <n>")

	case "image":
		if err := c.AddImageURL(args); err != nil {
			return "", err
		}
		return fmt.Sprintf("🖼 Rasm qo'shildi (%d ta)", len(c.Draft().Images)), nil

	case "rmimage":
		idx, err := parseIndex(args)
		if err != nil {
			return "", err
		}
		if err := c.RemoveImage(idx); err != nil {
			return "", err
		}
		return fmt.Sprintf("🗑 Rasm #%d o'chirildi", idx+1), nil

	case "variant":
		action, rest, _ := strings.Cut(args, " ")
		rest = strings.TrimSpace(rest)
		switch action {
		case "name":
			c.SetVariantName(rest)
		case "options":
			c.SetVariantOptions(rest)
		case "add":
			staged := c.StagedVariant()
			if !c.CommitVariant() {
				return "", fmt.Errorf("variant uchun nom va kamida bitta qiymat kerak (hozir: %q, %d ta qiymat)", staged.Name, len(staged.Options))
			}
			return fmt.Sprintf("✅ Variant %q qo'shildi", staged.Name), nil
		default:
			return "", fmt.Errorf("foydalanish: /variant name <nom> | options <a, b> | add")
		}
		staged := c.StagedVariant()
		return fmt.Sprintf("📝 Variant: %q [%s]", staged.Name, strings.Join(staged.Options, ", ")), nil

	case "rmvariant":
		idx, err := parseIndex(args)
		if err != nil {
			return "", err
		}
		if err := c.RemoveVariant(idx); err != nil {
			return "", err
		}
		return fmt.Sprintf("🗑 Variant #%d o'chirildi", idx+1), nil

	case "tag":
		tag, present, err := parseTagArgs(args)
		if err != nil {
			return "", err
		}
		if err := c.ToggleTag(tag, present); err != nil {
			return "", err
		}
		return fmt.Sprintf("🏷 Teglar: [%s]", strings.Join(c.Draft().Tags, ", ")), nil

	case "draft":
		return renderDraft(c), nil
	}

	return "", errUnknownCommand
}

// parseIndex foydalanuvchi yozgan 1 dan boshlangan raqamni 0 ga asoslangan indeksga o'girish
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("raqam kutilgan edi (1, 2, ...), %q berildi", raw)
	}
	return n - 1, nil
}

// parseTagArgs "best seller on" -> ("best seller", true)
func parseTagArgs(args string) (string, bool, error) {
	args = strings.ToLower(strings.TrimSpace(args))
	idx := strings.LastIndex(args, " ")
	if idx < 0 {
		return "", false, fmt.Errorf("foydalanish: /tag <teg> on|off. Teglar: %s", strings.Join(entity.TagVocabulary, ", "))
	}
	tag, flag := strings.TrimSpace(args[:idx]), args[idx+1:]
	switch flag {
	case "on", "yes", "+":
		return tag, true, nil
	case "off", "no", "-":
		return tag, false, nil
	}
	return "", false, fmt.Errorf("oxirgi so'z on yoki off bo'lishi kerak, %q berildi", flag)
}

// enumHint qiymat ruxsat etilmagan bo'lsa ogohlantirish; /submit baribir rad etadi
func enumHint(p entity.Product, field usecase.Field) string {
	switch {
	case field == usecase.FieldCategory && !entity.IsKnownCategory(p.Category):
		names := make([]string, len(entity.Categories))
		for i, cat := range entity.Categories {
			names[i] = string(cat)
		}
		return "\n⚠️ Ruxsat etilgan: " + strings.Join(names, ", ")
	case field == usecase.FieldStatus && p.Status != "" && !entity.IsKnownStatus(p.Status):
		names := make([]string, len(entity.Statuses))
		for i, st := range entity.Statuses {
			names[i] = string(st)
		}
		return "\n⚠️ Ruxsat etilgan: " + strings.Join(names, ", ")
	}
	return ""
}

func fieldList() string {
	names := make([]string, len(usecase.ScalarFields))
	for i, f := range usecase.ScalarFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func fieldValue(p entity.Product, field usecase.Field) string {
	switch field {
	case usecase.FieldName:
		return p.Name
	case usecase.FieldIntroduction:
		return p.Introduction
	case usecase.FieldDescription:
		return p.Description
	case usecase.FieldPrice:
		return formatMoney(p.Price)
	case usecase.FieldSalePrice:
		return formatMoney(p.SalePrice)
	case usecase.FieldCost:
		return formatMoney(p.Cost)
	case usecase.FieldStock:
		return strconv.Itoa(p.Stock)
	case usecase.FieldWeight:
		return strconv.FormatFloat(p.Weight, 'f', -1, 64) + " kg"
	case usecase.FieldCategory:
		return string(p.Category)
	case usecase.FieldCompany:
		return p.Company
	case usecase.FieldSKU:
		return p.SKU
	case usecase.FieldStatus:
		return string(p.Status)
	}
	return ""
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// renderDraft qoralamani matn ko'rinishida chiqarish
func renderDraft(c *usecase.ProductComposer) string {
	d := c.Draft()
	var sb strings.Builder

	title := "📝 Yangi mahsulot"
	if c.Editing() {
		title = "✏️ Tahrirlash: " + d.ID
	}
	sb.WriteString(title + "\n\n")
	for _, f := range usecase.ScalarFields {
		if v := fieldValue(d, f); v != "" {
			sb.WriteString(fmt.Sprintf("%s: %s\n", f, truncateString(v, 200)))
		}
	}

	if len(d.Features) > 0 {
		sb.WriteString("\nXususiyatlar:\n")
		for i, f := range d.Features {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, f))
		}
	}
	if len(d.Images) > 0 {
		sb.WriteString("\nRasmlar:\n")
		for i, url := range d.Images {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, url))
		}
	}
	if len(d.Variants) > 0 {
		sb.WriteString("\nVariantlar:\n")
		for i, v := range d.Variants {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, v.Name, strings.Join(v.Options, ", ")))
		}
	}
	if len(d.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\nTeglar: %s\n", strings.Join(d.Tags, ", ")))
	}

	if staged := c.StagedVariant(); staged.Name != "" || len(staged.Options) > 0 {
		sb.WriteString(fmt.Sprintf("\nTayyorlanmoqda: %q [%s]\n", staged.Name, strings.Join(staged.Options, ", ")))
	}
	if state := c.SubmitState(); state.Phase == usecase.SubmitFailed {
		sb.WriteString("\n⚠️ Oxirgi urinish: " + state.Reason + "\n")
	}
	if err := c.Validate(); err != nil {
		sb.WriteString("\n❗ " + err.Error() + "\n")
	}
	return sb.String()
}

// renderProducts katalog ro'yxatini chiqarish
func renderProducts(products []entity.Product, state usecase.State, limit int) string {
	if len(products) == 0 {
		return fmt.Sprintf("📦 Katalog bo'sh (%s)", state)
	}

	shown := products
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 Jami %d ta mahsulot (%s)\n\n", len(products), state.Phase))
	for i, p := range shown {
		sb.WriteString(fmt.Sprintf("%d) %s - %s", i+1, p.Name, formatMoney(p.Price)))
		if p.SalePrice > 0 {
			sb.WriteString(fmt.Sprintf(" (chegirma %s)", formatMoney(p.SalePrice)))
		}
		sb.WriteString(fmt.Sprintf(" [%s]", p.Status))
		if p.Stock > 0 {
			sb.WriteString(fmt.Sprintf(" Ombor: %d", p.Stock))
		}
		sb.WriteString("\n   id: " + p.ID + "\n")
	}
	if len(shown) < len(products) {
		sb.WriteString(fmt.Sprintf("\n... yana %d ta. To'liq ro'yxat uchun /export", len(products)-len(shown)))
	}
	return sb.String()
}

func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
