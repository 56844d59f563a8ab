package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/timero"
)

// storedValue is an aggregate kept as one blob under key. Other timero
// processes write the same keys, so updates are applied to what is stored
// rather than to what was loaded.
type storedValue[T any] struct {
	repo   timero.KVRepo
	key    string
	decode func([]byte) (T, error)
	encode func(T) ([]byte, error)
	clone  func(T) T
}

// update re-reads the stored value, applies fn and writes the result back in
// one transaction. It returns the value memory should hold and fn's error.
// A missing or unreadable stored value is replaced by current. If storage
// cannot be read, fn is applied to current and the result only lives in memory.
// When fn fails nothing is written and the returned value is the fresh base.
func (s storedValue[T]) update(p Persister, l *log.Logger, name string, current T, fn func(*T) error) (T, error) {
	var (
		base, next T
		fnErr      error
		applied    bool
	)
	err := p.Do(context.Background(), name, func(ctx context.Context) error {
		base = s.clone(current)
		data, err := s.repo.Get(ctx, s.key)
		switch {
		case errors.Is(err, timero.ErrNotFound):
		case err != nil:
			return fmt.Errorf("get %s: %w", s.key, err)
		default:
			if stored, err := s.decode(data); err != nil {
				l.Warn("overwriting unreadable stored value", "key", s.key, "err", err)
			} else {
				base = stored
			}
		}

		applied = true
		next = s.clone(base)
		if fnErr = fn(&next); fnErr != nil {
			return nil
		}
		data, err = s.encode(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.key, err)
		}
		return s.repo.Set(ctx, s.key, data)
	})
	if err != nil {
		l.Debug("update not stored", "op", name, "err", err)
	}

	if !applied {
		base = s.clone(current)
		next = s.clone(base)
		fnErr = fn(&next)
	}
	if fnErr != nil {
		return base, fnErr
	}
	return next, nil
}
