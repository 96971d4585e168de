package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/revelaction/terms/extract"
	"github.com/revelaction/terms/storage"
	"github.com/spaolacci/murmur3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// PhraseStore exports key noun phrases to the key_phrases table. Rows with
// the same processed phrase share the phrase_key, a murmur3 hash of it.
type PhraseStore struct {
	pool *sqlitex.Pool
}

var _ storage.PhraseWriter = (*PhraseStore)(nil)

func NewPhraseStore(pool *sqlitex.Pool) *PhraseStore {
	return &PhraseStore{pool: pool}
}

// PhraseKey returns the key of a processed phrase.
func PhraseKey(processed string) int64 {
	return int64(murmur3.Sum64([]byte(processed)))
}

func (h *PhraseStore) Write(rows []extract.Row) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	created := time.Now().UTC().Format(time.RFC3339)
	for _, r := range rows {
		err = sqlitex.Execute(conn, `
			INSERT INTO key_phrases (uuid, pos_label, key_noun_phrase, key_noun_phrase_processed, phrase_key, start_char, end_char, created)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, &sqlitex.ExecOptions{
			Args: []any{r.UUID, r.Label, r.Phrase, r.Processed, PhraseKey(r.Processed), r.Location[0], r.Location[1], created},
		})
		if err != nil {
			return fmt.Errorf("failed to insert key phrase: %w", err)
		}
	}

	return nil
}

// Count returns the number of rows of the processed phrase.
func (h *PhraseStore) Count(processed string) (int, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	count := 0
	err = sqlitex.Execute(conn, "SELECT count(*) FROM key_phrases WHERE phrase_key = ? AND key_noun_phrase_processed = ?", &sqlitex.ExecOptions{
		Args: []any{PhraseKey(processed), processed},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
