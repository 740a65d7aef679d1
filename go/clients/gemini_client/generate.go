package gemini_client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when a call succeeds but carries no usable content.
var ErrEmptyResponse = errors.New("gemini returned no content")

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Schema is the OpenAPI subset accepted as a response schema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text concatenates the text parts of the first candidate.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// TextPart builds a plain text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// PNGPart builds an inline image part from raw PNG bytes.
func PNGPart(png []byte) Part {
	return Part{InlineData: &InlineData{
		MimeType: MimeTypePNG,
		Data:     base64.StdEncoding.EncodeToString(png),
	}}
}

// GenerateContent calls generateContent on the text model.
func (c *GeminiClient) GenerateContent(ctx context.Context, req GenerateContentRequest) (*GenerateContentResponse, error) {
	var resp GenerateContentResponse
	if err := c.PostJSON(ctx, fmt.Sprintf(generateContentPath, c.textModel), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return &resp, nil
}

// GenerateJSON sends parts with a JSON response schema and decodes the
// answer into out.
func (c *GeminiClient) GenerateJSON(ctx context.Context, parts []Part, schema *Schema, out any) error {
	resp, err := c.GenerateContent(ctx, GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: JsonContentType,
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return err
	}

	text := resp.Text()
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to decode generated json: %w, raw: %s", err, text)
	}
	return nil
}
