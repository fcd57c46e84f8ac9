package corpus

import (
	"card-assist/internal/domain/entity"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PreservesOrder(t *testing.T) {
	src := `
- question: How do I block my card?
  answer: Ask the assistant to block it.
- question: When is my bill due?
  answer: On the 25th of each month.
`
	entries, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "How do I block my card?", entries[0].Question)
	assert.Equal(t, "On the 25th of each month.", entries[1].Answer)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty document", ""},
		{"empty list", "[]"},
		{"missing answer", "- question: hi\n"},
		{"blank question", "- question: '  '\n  answer: x\n"},
		{"not a list", "question: hi\nanswer: there\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}

	_, err := Load(strings.NewReader(""))
	assert.ErrorIs(t, err, entity.ErrEmptyCorpus)
}

func TestLoadFile_BundledCorpus(t *testing.T) {
	entries, err := LoadFile(filepath.Join("..", "..", "..", "knowledge_base", "faqs.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
