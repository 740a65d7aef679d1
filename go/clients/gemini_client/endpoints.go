package gemini_client

const (
	// Base URL
	BaseURL = "https://generativelanguage.googleapis.com/v1beta/"

	// Models
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"

	// Paths, formatted with the model name
	generateContentPath = "models/%s:generateContent"
	predictPath         = "models/%s:predict"

	// Headers
	APIKeyHeader    = "x-goog-api-key"
	JsonHeader      = "Content-Type"
	JsonContentType = "application/json"

	MimeTypePNG = "image/png"
)
