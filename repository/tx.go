package repository

import "context"

// Transactor runs fn inside a single unit of work. Repositories called with the
// context passed to fn share that unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
