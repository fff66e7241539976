package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/catalog-admin/internal/domain/entity"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"google.golang.org/api/option"
)

const systemInstruction = `You write catalog copy for an IoT hardware store admin panel.
Given a product draft, reply with a single introduction paragraph of at most 60 words.
Rules:
- Use only facts present in the draft. Never invent specifications, prices or certifications.
- No markdown, no bullet points, no headings, no emojis.
- Mention variant options only if they help the buyer choose.`

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// Client CopyWriter va Close
type Client interface {
	repository.CopyWriter
	Close() error
}

// NewGeminiClient yangi Gemini AI client yaratish
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(modelName)

	// Qisqa va aniq matn uchun
	model.SetTemperature(0.4)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(256)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &geminiClient{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // bir vaqtda 3 ta so'rovdan oshirma
		delay:  350 * time.Millisecond, // minimal interval
	}, nil
}

// WriteIntroduction qoralamadan tanishtiruv matnini yaratish
func (g *geminiClient) WriteIntroduction(ctx context.Context, draft entity.Product) (string, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return "", fmt.Errorf("draft has no name")
	}

	release := g.acquire()
	defer release()

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(draft)))
	if err != nil {
		return "", fmt.Errorf("failed to generate introduction: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	return strings.TrimSpace(extractText(resp)), nil
}

// BuildPrompt qoralamani model uchun matnga aylantirish
func BuildPrompt(draft entity.Product) string {
	var sb strings.Builder
	sb.WriteString("Product draft:\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", draft.Name))
	if draft.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", draft.Category))
	}
	if draft.Company != "" {
		sb.WriteString(fmt.Sprintf("Company: %s\n", draft.Company))
	}
	if draft.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", draft.Description))
	}
	if draft.Weight > 0 {
		sb.WriteString(fmt.Sprintf("Weight: %.3g kg\n", draft.Weight))
	}

	features := make([]string, 0, len(draft.Features))
	for _, f := range draft.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	if len(features) > 0 {
		sb.WriteString("Features:\n")
		for i, f := range features {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, f))
		}
	}

	for _, v := range draft.Variants {
		sb.WriteString(fmt.Sprintf("Variant %s: %s\n", v.Name, strings.Join(v.Options, ", ")))
	}
	return sb.String()
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}
	return result.String()
}

func (g *geminiClient) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close client ni yopish
func (g *geminiClient) Close() error {
	return g.client.Close()
}
