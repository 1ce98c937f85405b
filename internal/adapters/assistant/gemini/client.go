package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vetclinic-dashboard/internal/ports/assistant"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

var (
	ErrUpstream = errors.New("gemini upstream error")
)

type Config struct {
	APIKey string
	Model  string
}

// contentGenerator es el subconjunto de genai.Models que usamos (fake en tests).
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implementa assistant.Completer con Models.GenerateContent.
// Sin API key queda deshabilitado: Complete devuelve assistant.ErrNotConfigured.
type Client struct {
	models contentGenerator
	model  string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return &Client{model: model}, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{models: gc.Models, model: model}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.models != nil
}

func (c *Client) Model() string {
	return c.model
}

// Complete manda solo el prompt del usuario más la instrucción de sistema (sin historial).
func (c *Client) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if !c.IsConfigured() {
		return "", assistant.ErrNotConfigured
	}

	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(systemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
