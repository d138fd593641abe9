package aifill

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/commhub/community-settings/internal/settings/domain"
)

// GeminiGenerator asks a Gemini model for a JSON answer.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key: %w", domain.ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (domain.AiFillResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		return domain.AiFillResult{}, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.AiFillResult{}, fmt.Errorf("gemini returned no candidates")
	}

	return parseAnswer(resp.Candidates[0].Content.Parts[0].Text)
}

func buildPrompt(req Request) string {
	var known strings.Builder
	for _, nv := range req.Known {
		fmt.Fprintf(&known, "- %s: %s\n", nv.Name, nv.Value)
	}
	if known.Len() == 0 {
		known.WriteString("(none)\n")
	}

	return fmt.Sprintf(`You help a business fill in the contact and service details of its customer chat assistant.

Business name: %s
Notes from the operator:
%s

Variables already filled:
%s
Variables to fill: %s

Answer with JSON only, shaped as
{"filled":[{"name":"...","value":"..."}],"new":[{"name":"...","value":"..."}]}
"filled" holds values for the variables to fill; leave out any you cannot infer.
"new" holds up to three further variables that would help customers.`,
		req.ProjectName, req.Notes, known.String(), strings.Join(req.Empty, ", "))
}

// parseAnswer tolerates a fenced code block around the JSON.
func parseAnswer(text string) (domain.AiFillResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var out domain.AiFillResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return domain.AiFillResult{}, fmt.Errorf("failed to parse model answer: %w", err)
	}
	return out, nil
}
