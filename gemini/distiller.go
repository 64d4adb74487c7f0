// Package gemini distills page markdown using the Google Gemini API.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

const systemPrompt = `You are a precise parsing agent that extracts useful, content-rich information from markdown text taken from a documentation page. Identify and isolate high-value content while omitting boilerplate such as headers, footers, navigation links, and marketing language.

Your extraction should include:
- Code snippets, with the language identified
- Usage notes: brief, practical guidance on how or when to use something
- Best practices: concise advice or recommendations
- Short descriptions: 1-3 sentence summaries explaining what a concept or snippet does

Extraction rules:
- Only include information that adds real technical value or conveys core conceptual understanding.
- Ignore formatting artifacts, repeated content blocks, and non-essential boilerplate.
- Be selective and concise. Do not include overly verbose explanations or non-functional examples.
- Avoid duplicating content unless multiple perspectives are clearly valuable.

All output must be valid markdown.`

// Ensure Distiller implements distill.Distiller at compile time.
var _ distill.Distiller = (*Distiller)(nil)

// Distiller implements distill.Distiller using Google Gemini.
type Distiller struct {
	client *genai.Client
}

// NewDistiller creates a new Distiller.
func NewDistiller(client *genai.Client) *Distiller {
	return &Distiller{client: client}
}

// Distill condenses page markdown into content-rich markdown.
func (d *Distiller) Distill(ctx context.Context, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", distill.Errorf(distill.EINVALID, "empty markdown input")
	}

	config := BuildConfig()

	result, err := d.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: markdown}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", distill.Errorf(distill.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temp,
	}
}
