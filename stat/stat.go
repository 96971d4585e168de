package stat

import (
	"sort"

	sent "github.com/revelaction/terms/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs               int
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// subject tokens whose subtree was matched
	NumSubjects int

	NumRows      int
	RowsPerLabel map[string]int
}

// LabelCount is the number of rows of a label.
type LabelCount struct {
	Label string
	Count int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		RowsPerLabel:         map[string]int{},
	}
	return &Handler{
		stats: stats,
	}
}

func (h *Handler) Aggregate(doc sent.Doc) {
	h.stats.NumDocs++

	for _, sentence := range doc.Sentences() {
		h.stats.NumSentences++
		h.stats.NumTokens += len(sentence)
		h.stats.TokensPerSentenceDis[len(sentence)]++
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

func (h *Handler) AddSubject() {
	h.stats.NumSubjects++
}

func (h *Handler) AddRow(label string) {
	h.stats.NumRows++
	h.stats.RowsPerLabel[label]++
}

// Labels returns the row count per label, most frequent first.
func (s Stats) Labels() []LabelCount {
	counts := make([]LabelCount, 0, len(s.RowsPerLabel))
	for label, n := range s.RowsPerLabel {
		counts = append(counts, LabelCount{label, n})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})

	return counts
}
