package content

import (
	"context"
	"fmt"
	"strings"

	gemini "github.com/mcdev12/wordrace/go/clients/gemini_client"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/rs/zerolog/log"
)

// GeminiAPI is the slice of the Gemini client used to generate rounds.
type GeminiAPI interface {
	GenerateJSON(ctx context.Context, parts []gemini.Part, schema *gemini.Schema, out any) error
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type generatedRound struct {
	Word string `json:"word"`
	Quiz struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
	} `json:"quiz"`
}

var roundSchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"word": {Type: "STRING", Description: "A single simple English word for a 5-7 year old, in lowercase."},
		"quiz": {
			Type: "OBJECT",
			Properties: map[string]*gemini.Schema{
				"question":      {Type: "STRING", Description: "A simple question about the word."},
				"options":       {Type: "ARRAY", Items: &gemini.Schema{Type: "STRING"}, Description: "Four multiple choice options."},
				"correctAnswer": {Type: "STRING", Description: "The correct answer from the options."},
			},
			Required: []string{"question", "options", "correctAnswer"},
		},
	},
	Required: []string{"word", "quiz"},
}

// GeminiGenerator asks the text model for a word and quiz, then the image
// model for a picture of the word.
type GeminiGenerator struct {
	api GeminiAPI
}

func NewGeminiGenerator(api GeminiAPI) *GeminiGenerator {
	return &GeminiGenerator{api: api}
}

func (g *GeminiGenerator) Generate(ctx context.Context, exclude []string) (models.RoundContent, error) {
	prompt := "Generate a single, simple English word appropriate for a 5-7 year old child. " +
		"The word should be in lowercase. Also create a simple multiple-choice quiz question about the word. " +
		"Provide 4 options and the correct answer."
	if len(exclude) > 0 {
		prompt += " Do NOT use any of the following words: " + strings.Join(exclude, ", ") + "."
	}

	var out generatedRound
	if err := g.api.GenerateJSON(ctx, []gemini.Part{gemini.TextPart(prompt)}, roundSchema, &out); err != nil {
		return models.RoundContent{}, fmt.Errorf("failed to generate word: %w", err)
	}
	if out.Word == "" || out.Quiz.Question == "" {
		return models.RoundContent{}, fmt.Errorf("generator returned incomplete round")
	}

	rc := models.RoundContent{
		Word: strings.ToLower(out.Word),
		Quiz: models.Quiz{
			Question:      out.Quiz.Question,
			Options:       out.Quiz.Options,
			CorrectAnswer: out.Quiz.CorrectAnswer,
		},
	}

	imagePrompt := fmt.Sprintf(`A simple, cute, cartoon illustration of a "%s", on a plain white background, clipart style for a child's game.`, rc.Word)
	img, err := g.api.GenerateImage(ctx, imagePrompt)
	if err != nil {
		return models.RoundContent{}, fmt.Errorf("failed to generate image: %w", err)
	}
	rc.WordImage = img

	log.Info().Str("word", rc.Word).Msg("generated round content")
	return rc, nil
}
