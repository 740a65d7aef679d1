package content

import (
	"fmt"
	"os"
	"strings"

	"github.com/mcdev12/wordrace/go/internal/models"
	"gopkg.in/yaml.v3"
)

type poolFile struct {
	Rounds []models.RoundContent `yaml:"rounds"`
}

// LoadPool reads the local round pool from a YAML file.
func LoadPool(path string) ([]models.RoundContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read round pool: %w", err)
	}
	return ParsePool(data)
}

// ParsePool decodes and validates a round pool document.
func ParsePool(data []byte) ([]models.RoundContent, error) {
	var f poolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse round pool: %w", err)
	}

	seen := make(map[string]bool, len(f.Rounds))
	rounds := make([]models.RoundContent, 0, len(f.Rounds))
	for i, rc := range f.Rounds {
		rc.Word = normalize(rc.Word)
		if err := validateRound(rc); err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		if seen[rc.Word] {
			return nil, fmt.Errorf("round %d: duplicate word %q", i, rc.Word)
		}
		seen[rc.Word] = true
		rounds = append(rounds, rc)
	}
	return rounds, nil
}

func validateRound(rc models.RoundContent) error {
	if rc.Word == "" {
		return fmt.Errorf("word is required")
	}
	if rc.Quiz.Question == "" {
		return fmt.Errorf("quiz question is required")
	}
	if len(rc.Quiz.Options) < 2 {
		return fmt.Errorf("quiz needs at least two options")
	}
	if rc.Quiz.CorrectIndex() < 0 {
		return fmt.Errorf("correct answer %q matches no option", rc.Quiz.CorrectAnswer)
	}
	return nil
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
