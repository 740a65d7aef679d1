package gemini_client

import (
	"strings"

	"github.com/mcdev12/wordrace/go/clients"
)

type GeminiClient struct {
	*clients.BaseClient
	textModel  string
	imageModel string
}

// NewGeminiClient returns a client for the Generative Language REST API.
// An empty baseURL selects the public endpoint.
func NewGeminiClient(apiKey, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := &GeminiClient{
		BaseClient: clients.NewBaseClient(baseURL),
		textModel:  DefaultTextModel,
		imageModel: DefaultImageModel,
	}

	client.SetHeader(APIKeyHeader, apiKey)
	client.SetHeader(JsonHeader, JsonContentType)

	return client
}

// WithModels overrides the default model names. Empty values keep the default.
func (c *GeminiClient) WithModels(text, image string) *GeminiClient {
	if text != "" {
		c.textModel = text
	}
	if image != "" {
		c.imageModel = image
	}
	return c
}
