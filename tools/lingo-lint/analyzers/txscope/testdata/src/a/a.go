package a

import "context"

type Reader interface {
	FindBranch(ctx context.Context, id string) error
}

type Tx interface {
	Reader
}

type Store interface {
	Reader
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

type service struct {
	store Store
}

func requireBranch(ctx context.Context, r Reader, id string) error {
	return r.FindBranch(ctx, id)
}

func (s *service) bad(ctx context.Context) error {
	return s.store.WithTx(ctx, func(tx Tx) error {
		if err := s.store.FindBranch(ctx, "b1"); err != nil { // want `s.store used inside s.store.WithTx`
			return err
		}
		return requireBranch(ctx, s.store, "b2") // want `s.store used inside s.store.WithTx`
	})
}

func (s *service) good(ctx context.Context) error {
	if err := requireBranch(ctx, s.store, "b0"); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx Tx) error {
		return requireBranch(ctx, tx, "b1")
	})
}

func plain(ctx context.Context, store Store) error {
	return store.WithTx(ctx, func(tx Tx) error {
		return store.FindBranch(ctx, "b1") // want `store used inside store.WithTx`
	})
}
