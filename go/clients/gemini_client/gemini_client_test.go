package gemini_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJSON_DecodesFirstCandidate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GenerateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(APIKeyHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"word\":\"kite\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("secret", srv.URL)
	var out struct {
		Word string `json:"word"`
	}
	err := c.GenerateJSON(context.Background(), []Part{TextPart("hi"), PNGPart([]byte{1, 2, 3})}, &Schema{Type: "OBJECT"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "kite", out.Word)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.Equal(t, "AQID", gotReq.Contents[0].Parts[1].InlineData.Data)
	assert.Equal(t, JsonContentType, gotReq.GenerationConfig.ResponseMimeType)
}

func TestGenerateJSON_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewGeminiClient("k", srv.URL).GenerateJSON(context.Background(), []Part{TextPart("x")}, nil, &out)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateContent_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`quota exceeded`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient("k", srv.URL).GenerateContent(context.Background(), GenerateContentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateImage_ReturnsDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/imagen-3.0-generate-002:predict", r.URL.Path)
		_, _ = w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"AAAA","mimeType":"image/png"}]}`))
	}))
	defer srv.Close()

	url, err := NewGeminiClient("k", srv.URL).GenerateImage(context.Background(), "a kite")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", url)
}
