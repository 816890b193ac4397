package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const promptTemplate = `I am adding a web application to my dashboard.
App Name: "%s"
App URL: "%s"
Please generate a short, catchy description (max 15 words).`

// The key travels in this header, never in the request URL.
const apiKeyHeader = "x-goog-api-key"

type GeminiConfig struct {
	APIKey     string        `validate:"required"`
	Model      string        `validate:"required"`
	BaseURL    string        `validate:"required,url"`
	RESTClient *resty.Client `validate:"required"`
}

// Gemini calls the generateContent endpoint of the Generative Language API
// and asks for a JSON object of the form {"description": "..."}.
type Gemini struct {
	conf     GeminiConfig
	endpoint string
}

var _ Describer = (*Gemini)(nil)

func NewGemini(conf GeminiConfig) (*Gemini, error) {
	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("error validate gemini client: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(conf.BaseURL, "/"), url.PathEscape(conf.Model))

	return &Gemini{conf: conf, endpoint: endpoint}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

func (g *Gemini) Describe(ctx context.Context, name, appURL string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, name, appURL)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"description": map[string]any{"type": "STRING"},
				},
				"required": []string{"description"},
			},
		},
	}

	resp, err := g.conf.RESTClient.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, g.conf.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}

	if !resp.IsSuccess() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode(), msg)
	}

	return parseDescription(resp.Body())
}

// parseDescription pulls the description out of a generateContent response,
// whose first candidate text is itself a JSON document.
func parseDescription(raw []byte) (string, error) {
	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	if !gjson.Valid(text) {
		return "", fmt.Errorf("gemini candidate is not json: %q", text)
	}

	desc := strings.TrimSpace(gjson.Get(text, "description").String())
	if desc == "" {
		return "", ErrEmptyResponse
	}
	return desc, nil
}
