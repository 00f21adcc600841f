package a

import "context"

type Key struct{ Name, Namespace string }

type Reader interface {
	FindKey(ctx context.Context, branchID string, key Key) (*Key, error)
	ListTranslations(ctx context.Context, branchID string) ([]string, error)
}

type Writer interface {
	UpsertTranslation(ctx context.Context, value string) error
}

func bad(ctx context.Context, r Reader, branchIDs []string, keys []Key) {
	for _, k := range keys {
		r.FindKey(ctx, "b1", k) // want "FindKey called inside loop"
	}
	for i := 0; i < len(branchIDs); i++ {
		r.ListTranslations(ctx, branchIDs[i]) // want "ListTranslations called inside loop"
	}
}

func nested(ctx context.Context, r Reader, branchIDs []string, keys []Key) {
	for _, id := range branchIDs {
		for _, k := range keys {
			r.FindKey(ctx, id, k) // want "FindKey called inside loop"
		}
	}
}

func good(ctx context.Context, r Reader, w Writer, values []string) {
	// Reads before the loop and writes inside it are fine.
	_, _ = r.ListTranslations(ctx, "b1")
	for _, v := range values {
		_ = w.UpsertTranslation(ctx, v)
	}
}

func deferred(ctx context.Context, r Reader, keys []Key) []func() {
	var fns []func()
	for _, k := range keys {
		fns = append(fns, func() { r.FindKey(ctx, "b1", k) })
	}
	return fns
}
