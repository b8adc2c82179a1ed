package inventory

import "context"

// Store persists the collection as a single document. Load on a missing
// document yields an empty collection; Load on an unreadable or undecodable
// document yields an empty collection together with the error, so callers
// can surface it and keep running.
type Store interface {
	Load(ctx context.Context) (Collection, error)
	Save(ctx context.Context, col Collection) error
}
