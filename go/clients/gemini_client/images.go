package gemini_client

import (
	"context"
	"fmt"
)

type imageInstance struct {
	Prompt string `json:"prompt"`
}

type imageParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio"`
	OutputMimeType string `json:"outputMimeType"`
}

type predictRequest struct {
	Instances  []imageInstance `json:"instances"`
	Parameters imageParameters `json:"parameters"`
}

type Prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type predictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// GenerateImage renders a single square PNG for prompt and returns it as a
// data URL.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := predictRequest{
		Instances: []imageInstance{{Prompt: prompt}},
		Parameters: imageParameters{
			SampleCount:    1,
			AspectRatio:    "1:1",
			OutputMimeType: MimeTypePNG,
		},
	}

	var resp predictResponse
	if err := c.PostJSON(ctx, fmt.Sprintf(predictPath, c.imageModel), req, &resp); err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return "", ErrEmptyResponse
	}

	p := resp.Predictions[0]
	mime := p.MimeType
	if mime == "" {
		mime = MimeTypePNG
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, p.BytesBase64Encoded), nil
}
