package main

import (
	"errors"

	"github.com/revelaction/terms/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens each sqlite database once. The rules and the exported phrases
// may live in the same file.
type Pool struct {
	pools map[string]*sqlitex.Pool
}

func (p *Pool) Open(path string, schemaNames ...string) (*sqlitex.Pool, error) {
	if pool, ok := p.pools[path]; ok {
		if err := zombiezen.CreateSchemas(pool, schemaNames...); err != nil {
			return nil, err
		}
		return pool, nil
	}

	pool, err := zombiezen.NewPool(path, schemaNames...)
	if err != nil {
		return nil, err
	}

	if p.pools == nil {
		p.pools = map[string]*sqlitex.Pool{}
	}
	p.pools[path] = pool
	return pool, nil
}

func (p *Pool) Close() error {
	var errs []error
	for path, pool := range p.pools {
		errs = append(errs, pool.Close())
		delete(p.pools, path)
	}
	return errors.Join(errs...)
}
