package judge

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	gemini "github.com/mcdev12/wordrace/go/clients/gemini_client"
	"github.com/rs/zerolog/log"
)

// JSONGenerator is the slice of the Gemini client the judge needs.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, parts []gemini.Part, schema *gemini.Schema, out any) error
}

// Verdict is the structured answer requested from the model.
type Verdict struct {
	WrittenWord *string  `json:"written_word"`
	LetterCount *float64 `json:"letter_count"`
	WordMatch   *bool    `json:"word_match"`
	Correct     *bool    `json:"correct"`
}

var verdictSchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"written_word": {Type: "STRING", Description: `The exact word written in the image, or "unreadable" if illegible.`},
		"letter_count": {Type: "NUMBER", Description: "Exact number of letters that can be identified."},
		"word_match":   {Type: "BOOLEAN", Description: "True only if written_word exactly matches the target word."},
		"correct":      {Type: "BOOLEAN", Description: "True only if written_word exactly matches the target word."},
	},
	Required: []string{"written_word", "letter_count", "word_match", "correct"},
}

// GeminiJudge asks a multimodal model to read the ink and then re-checks the
// model's answer locally.
type GeminiJudge struct {
	gen JSONGenerator
}

func NewGeminiJudge(gen JSONGenerator) *GeminiJudge {
	return &GeminiJudge{gen: gen}
}

func (j *GeminiJudge) Judge(ctx context.Context, word string, ink image.Image) (bool, error) {
	if ink == nil {
		return false, ErrNoInk
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, ink); err != nil {
		return false, fmt.Errorf("failed to encode ink: %w", err)
	}

	var v Verdict
	parts := []gemini.Part{gemini.PNGPart(buf.Bytes()), gemini.TextPart(judgePrompt(word))}
	if err := j.gen.GenerateJSON(ctx, parts, verdictSchema, &v); err != nil {
		return false, fmt.Errorf("failed to recognize handwriting: %w", err)
	}

	ok := Verify(word, v)
	log.Info().
		Str("word", word).
		Interface("verdict", v).
		Bool("correct", ok).
		Msg("handwriting judged")
	return ok, nil
}

// Verify applies the local checks to a model verdict. A malformed verdict is
// incorrect.
func Verify(word string, v Verdict) bool {
	if v.WrittenWord == nil || v.LetterCount == nil || v.WordMatch == nil || v.Correct == nil {
		return false
	}

	written := strings.ToLower(strings.TrimSpace(*v.WrittenWord))
	if written == "unreadable" || written == "illegible" {
		return false
	}

	target := strings.ToLower(strings.TrimSpace(word))
	if *v.LetterCount < math.Floor(float64(len(target))*0.5) {
		return false
	}

	if written == target {
		return true
	}
	return *v.Correct
}

func judgePrompt(word string) string {
	w := strings.ToLower(word)
	n := len(word)
	return fmt.Sprintf(`You are an extremely strict handwriting evaluator for a children's spelling game.

TARGET WORD: "%[1]s" (%[2]d letters)

Read the handwritten image and compare it EXACTLY with "%[1]s".
Only mark it correct if you can clearly read a complete word, it is exactly "%[1]s" (case-insensitive), and all %[2]d letters are present and recognizable.
Mark it incorrect for random lines, scribbles, shapes, missing letters, a different word, or anything you cannot clearly identify. When in doubt, mark it incorrect.

Respond with:
{
  "written_word": "the exact word you see written (or 'unreadable')",
  "letter_count": exact number of letters you can identify,
  "word_match": true only if it exactly matches "%[1]s",
  "correct": true only if written_word exactly matches "%[1]s"
}`, w, n)
}
