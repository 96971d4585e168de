package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// RuleStore keeps rules in the rules table, the pattern sequences as JSON.
// Rules are returned in insertion order.
type RuleStore struct {
	pool *sqlitex.Pool
}

var _ storage.RuleReader = (*RuleStore)(nil)
var _ storage.RuleWriter = (*RuleStore)(nil)

func NewRuleStore(pool *sqlitex.Pool) *RuleStore {
	return &RuleStore{pool: pool}
}

func (h *RuleStore) ReadAll() (pattern.Library, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	lib := pattern.Library{}
	err = sqlitex.Execute(conn, "SELECT label, pattern FROM rules ORDER BY rowid", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			r, err := assembleRule(stmt.ColumnText(0), stmt.ColumnText(1))
			if err != nil {
				return err
			}

			lib = append(lib, r)
			return nil
		},
	})

	if err != nil {
		return nil, err
	}

	return lib, nil
}

func (h *RuleStore) Read(label string) (pattern.Rule, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return pattern.Rule{}, err
	}
	defer h.pool.Put(conn)

	var r pattern.Rule
	found := false
	err = sqlitex.Execute(conn, "SELECT label, pattern FROM rules WHERE label = ? LIMIT 1", &sqlitex.ExecOptions{
		Args: []any{label},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var err error
			r, err = assembleRule(stmt.ColumnText(0), stmt.ColumnText(1))
			found = true
			return err
		},
	})

	if err != nil {
		return pattern.Rule{}, err
	}

	if !found {
		return pattern.Rule{}, fmt.Errorf("%w: %s", storage.ErrRuleNotFound, label)
	}

	return r, nil
}

func (h *RuleStore) Write(r pattern.Rule) error {
	if err := (pattern.Library{r}).Validate(); err != nil {
		return err
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	patternJSON, err := json.Marshal(r.Pattern)
	if err != nil {
		return err
	}

	return sqlitex.Execute(conn, `
		INSERT INTO rules (label, pattern, updated)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(label) DO UPDATE SET
			pattern = excluded.pattern,
			updated = excluded.updated
	`, &sqlitex.ExecOptions{
		Args: []any{r.Label, string(patternJSON)},
	})
}

func (h *RuleStore) Delete(label string) error {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	err = sqlitex.Execute(conn, "DELETE FROM rules WHERE label = ?", &sqlitex.ExecOptions{
		Args: []any{label},
	})
	if err != nil {
		return err
	}

	if conn.Changes() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrRuleNotFound, label)
	}

	return nil
}

func assembleRule(label, patternJSON string) (pattern.Rule, error) {
	r := pattern.Rule{Label: label}
	if err := json.Unmarshal([]byte(patternJSON), &r.Pattern); err != nil {
		return pattern.Rule{}, fmt.Errorf("rule %s: %w", label, err)
	}

	return r, nil
}
