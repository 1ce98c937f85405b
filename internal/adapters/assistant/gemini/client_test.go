package gemini

import (
	"context"
	"errors"
	"testing"

	"vetclinic-dashboard/internal/ports/assistant"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	reply string
	err   error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func TestNewClient_WithoutKeyIsDisabled(t *testing.T) {
	c, err := NewClient(context.Background(), Config{})
	require.NoError(t, err)
	require.False(t, c.IsConfigured())
	require.Equal(t, DefaultModel, c.Model())

	_, err = c.Complete(context.Background(), "oi", "sys")
	require.ErrorIs(t, err, assistant.ErrNotConfigured)
}

func TestComplete_SendsPromptAndSystemInstruction(t *testing.T) {
	f := &fakeModels{reply: "Dose recomendada: 10 mg/kg."}
	c := &Client{models: f, model: "gemini-test"}

	got, err := c.Complete(context.Background(), "Dose de dipirona para cão de 10kg?", "Você é o VetBot.")
	require.NoError(t, err)
	require.Equal(t, "Dose recomendada: 10 mg/kg.", got)

	require.Equal(t, "gemini-test", f.model)
	require.Len(t, f.contents, 1)
	require.Len(t, f.contents[0].Parts, 1)
	require.Equal(t, "Dose de dipirona para cão de 10kg?", f.contents[0].Parts[0].Text)

	require.NotNil(t, f.config.SystemInstruction)
	require.Equal(t, "Você é o VetBot.", f.config.SystemInstruction.Parts[0].Text)
}

func TestComplete_WrapsProviderError(t *testing.T) {
	c := &Client{models: &fakeModels{err: errors.New("quota exceeded")}, model: DefaultModel}

	_, err := c.Complete(context.Background(), "oi", "")
	require.ErrorIs(t, err, ErrUpstream)
}
