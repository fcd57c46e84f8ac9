package entity

type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Text is the string embedded for this entry.
func (e FAQEntry) Text() string {
	return e.Question + " " + e.Answer
}

// FAQMatch is the best corpus entry for a query and its cosine similarity.
type FAQMatch struct {
	Entry    FAQEntry `json:"entry"`
	Score    float32  `json:"score"`
	Position int      `json:"position"`
}
