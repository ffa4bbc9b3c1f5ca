package service

import (
	"context"
)

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back as one unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
