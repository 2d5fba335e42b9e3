// internal/enhance/enhancer.go
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/davenull7x/listforge/internal/config"
	"github.com/davenull7x/listforge/internal/schema"
)

// Request carries the page context given to the collaborator.
type Request struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Suggestion is the collaborator's improvement. Empty fields mean "keep the
// original value"; a nil Suggestion means the same for all three.
type Suggestion struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
}

// Enhancer is the optional content-generation collaborator. Callers must
// tolerate nil/absent responses by keeping their original values.
type Enhancer interface {
	Improve(ctx context.Context, req Request) (*Suggestion, error)
}

// GeminiEnhancer implements Enhancer against the Gemini API.
type GeminiEnhancer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewGemini(ctx context.Context, cfg config.EnhancerConfig, logger *zap.Logger) (*GeminiEnhancer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("enhancer API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiEnhancer{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     logger.Named("enhancer"),
	}, nil
}

const improvePromptTemplate = `You improve listing copy for a directory submission.
Given the page context below, return strict JSON with keys "description",
"category" and "tags". The description must be 50 to 300 characters of plain
prose; tags is a comma-separated list of at most five short tags. Return an
empty string for any field you cannot improve.

Page URL: %s
Page title: %s
Current description: %s
Page keywords: %s`

// Improve asks the model for better description/category/tags text. Any
// transport or parse failure returns an error; callers keep their originals.
func (g *GeminiEnhancer) Improve(ctx context.Context, req Request) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(improvePromptTemplate, req.URL, req.Title, req.Description, req.Keywords)
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	var s Suggestion
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("unparseable enhancer response: %w", err)
	}
	g.log.Debug("Enhancer suggestion received",
		zap.Bool("description", s.Description != ""),
		zap.Bool("category", s.Category != ""),
		zap.Bool("tags", s.Tags != ""))
	return &s, nil
}

// Apply merges a suggestion into the submission data. Empty or nil
// suggestion fields keep the original values; a suggested description that
// falls outside the validated length bounds is discarded too.
func Apply(data *schema.SubmissionData, s *Suggestion) {
	if s == nil {
		return
	}
	if n := len(s.Description); s.Description != "" && n >= 50 && n <= 300 {
		data.Description = s.Description
	}
	if s.Category != "" {
		data.Category = s.Category
	}
	if s.Tags != "" {
		data.Tags = s.Tags
	}
}
