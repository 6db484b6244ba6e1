// Package extractor turns emailed PDF fund reports into candidate
// records using the Gemini API.
package extractor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"FondoSync/internal/collector"
	"FondoSync/internal/fund"
	"FondoSync/internal/model"
)

const (
	// DefaultModel is the Gemini model used for table extraction.
	DefaultModel = "gemini-3-flash-preview"

	// maxPromptText caps the extracted PDF text sent in a prompt.
	maxPromptText = 50000
)

// GeminiExtractor implements collector.Extractor.
type GeminiExtractor struct {
	client   *genai.Client
	model    string
	registry *fund.Registry
}

// Option configures the extractor.
type Option func(*GeminiExtractor)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(e *GeminiExtractor) {
		if model != "" {
			e.model = model
		}
	}
}

// NewGeminiExtractor creates the extractor. The registry supplies the
// closed fund-name set embedded in the prompt.
func NewGeminiExtractor(ctx context.Context, apiKey string, registry *fund.Registry, opts ...Option) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	e := &GeminiExtractor{
		client:   client,
		model:    DefaultModel,
		registry: registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract asks Gemini for the unit-value table of one PDF report. When
// the PDF has a text layer the plain text is sent; otherwise the raw
// PDF bytes go inline. The model's output is parsed as a JSON array;
// anything else is ErrMalformedOutput for this document.
func (e *GeminiExtractor) Extract(ctx context.Context, att collector.Attachment) ([]model.ExtractedRecord, error) {
	prompt := buildExtractionPrompt(e.registry.ReportProfiles())

	parts := []*genai.Part{}
	if text, err := ExtractText(att.Data); err == nil && len(strings.TrimSpace(text)) > 0 {
		parts = append(parts, &genai.Part{Text: "Contenido del reporte PDF:\n\n" + text})
	} else {
		if err != nil {
			log.Printf("[WARN] pdf text extraction failed for %s, sending raw bytes: %v", att.Filename, err)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: "application/pdf",
			Data:     att.Data,
		}})
	}
	parts = append(parts, &genai.Part{Text: prompt})

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content for %s: %w", att.Filename, err)
	}

	text, err := responseText(result)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", att.Filename, err)
	}

	records, err := ParseRecords(text)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", att.Filename, err)
	}
	log.Printf("[INFO] extracted %d records from %s", len(records), att.Filename)
	return records, nil
}

func responseText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// buildExtractionPrompt lists the closed fund-name set with canonical
// ids and demands a bare JSON array in return.
func buildExtractionPrompt(profiles []fund.Profile) string {
	var sb strings.Builder
	sb.WriteString("Analiza este PDF que contiene una tabla de rentabilidad de fondos.\n\n")
	sb.WriteString("IMPORTANTE: Solo extrae los datos de estos fondos específicos y devuelve ÚNICAMENTE un array JSON sin comentarios ni descripciones adicionales:\n\n")
	sb.WriteString("Fondos a buscar con sus IDs:\n")
	for i, p := range profiles {
		fmt.Fprintf(&sb, "%d. %q -> ID: %q\n", i+1, p.Name, p.ID)
	}
	sb.WriteString(`
Para cada fondo encontrado, extrae:
- La fecha del reporte (del título del documento), en formato YYYY-MM-DD
- El valor de la unidad (columna "Valor de la Unidad")

Devuelve SOLO este formato JSON (sin texto adicional):
[
  { "idFund": "<id>", "date": "2025-06-18", "price": 1234.54 }
]

IMPORTANTE:
- Usa los precios exactos de la columna "Valor de la Unidad"
- Usa la fecha exacta del título del documento
- Si un fondo no se encuentra, omítelo del array
`)
	return sb.String()
}
