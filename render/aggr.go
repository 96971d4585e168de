package render

import (
	"fmt"
	"sort"

	"github.com/revelaction/terms/table"
	"github.com/spaolacci/murmur3"
)

// Column aggregated by the aggr format.
const AggrColumn = "key_noun_phrase_processed"

// PhraseCount is the number of rows of a processed phrase.
type PhraseCount struct {
	NumRows int
	Phrase  string
}

// Aggregate counts the rows per processed phrase, most frequent (then
// shortest) first.
func Aggregate(t *table.Table) ([]PhraseCount, error) {
	values, err := t.Column(AggrColumn)
	if err != nil {
		return nil, err
	}

	counts := map[uint64]*PhraseCount{}
	order := []uint64{}
	for _, v := range values {
		phrase := fmt.Sprint(v)
		key := murmur3.Sum64([]byte(phrase))
		if c, ok := counts[key]; ok {
			c.NumRows++
			continue
		}

		counts[key] = &PhraseCount{NumRows: 1, Phrase: phrase}
		order = append(order, key)
	}

	sl := make([]PhraseCount, len(order))
	for i, key := range order {
		sl[i] = *counts[key]
	}

	sort.SliceStable(sl, func(i, j int) bool {

		// first by num rows
		if sl[i].NumRows != sl[j].NumRows {
			return sl[i].NumRows > sl[j].NumRows
		}

		// len of phrase
		return len(sl[i].Phrase) < len(sl[j].Phrase)
	})

	return sl, nil
}

func (r *Renderer) aggr(t *table.Table) error {
	sl, err := Aggregate(t)
	if err != nil {
		return err
	}

	var prefix string
	for _, s := range sl {
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%5d] ✍  ", s.NumRows)
		}

		if _, err := fmt.Fprintf(r.W, "%s%s\n", prefix, s.Phrase); err != nil {
			return err
		}
	}

	return nil
}
