package corpus

import (
	"card-assist/internal/domain/entity"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML FAQ list from path.
func LoadFile(path string) ([]entity.FAQEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open faq corpus: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML sequence of {question, answer} entries. Order is
// preserved; it decides ties during retrieval.
func Load(r io.Reader) ([]entity.FAQEntry, error) {
	var entries []entity.FAQEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode faq corpus: %w", err)
	}
	if len(entries) == 0 {
		return nil, entity.ErrEmptyCorpus
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("faq entry %d: question and answer are required", i)
		}
	}
	return entries, nil
}
