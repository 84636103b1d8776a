package domain

import "context"

// Store gives access to the repositories and scopes work to a single transactional session.
type Store interface {
	Events() EventRepository
	RSVPs() RSVPRepository
	// WithinTx runs fn in a transaction. It commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// TaskRunner runs work outside the request path. Submit must not block and
// failures are only logged.
type TaskRunner interface {
	Submit(name string, task func(ctx context.Context) error)
}
