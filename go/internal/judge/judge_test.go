package judge

import (
	"context"
	"errors"
	"image"
	"testing"

	gemini "github.com/mcdev12/wordrace/go/clients/gemini_client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, parts []gemini.Part, schema *gemini.Schema, out any) error {
	args := m.Called(ctx, parts, schema, out)
	if v, ok := args.Get(0).(Verdict); ok {
		*(out.(*Verdict)) = v
	}
	return args.Error(1)
}

func verdict(written string, letters float64, match, correct bool) Verdict {
	return Verdict{WrittenWord: &written, LetterCount: &letters, WordMatch: &match, Correct: &correct}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		word string
		v    Verdict
		want bool
	}{
		{"exact match", "cat", verdict("cat", 3, true, true), true},
		{"case and space insensitive", "Cat", verdict(" CAT ", 3, false, false), true},
		{"unreadable", "cat", verdict("unreadable", 3, false, true), false},
		{"illegible", "cat", verdict("Illegible", 3, false, true), false},
		{"too few letters", "strawberry", verdict("straw", 4, false, true), false},
		{"letter floor boundary", "strawberry", verdict("strawbery", 5, false, true), true},
		{"different word trusts model", "sun", verdict("sum", 3, false, false), false},
		{"malformed", "sun", Verdict{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.word, tt.v))
		})
	}
}

func TestGeminiJudge_Judge(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.Anything, verdictSchema, mock.Anything).
		Return(verdict("apple", 5, true, true), nil).Once()

	ok, err := NewGeminiJudge(gen).Judge(context.Background(), "apple", image.NewAlpha(image.Rect(0, 0, 4, 4)))

	require.NoError(t, err)
	assert.True(t, ok)
	gen.AssertExpectations(t)
}

func TestGeminiJudge_BackendError(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota")).Once()

	ok, err := NewGeminiJudge(gen).Judge(context.Background(), "apple", image.NewAlpha(image.Rect(0, 0, 4, 4)))

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestGeminiJudge_NoInk(t *testing.T) {
	gen := new(mockGenerator)
	ok, err := NewGeminiJudge(gen).Judge(context.Background(), "apple", nil)

	assert.ErrorIs(t, err, ErrNoInk)
	assert.False(t, ok)
	gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisabled(t *testing.T) {
	ok, err := Disabled{}.Judge(context.Background(), "apple", nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
