package queries

import (
	"errors"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListPendingDeliveriesQueryIsNotConstructed = errors.New(
	"ListPendingDeliveriesQuery must be created via NewListPendingDeliveriesQuery constructor",
)

// ListPendingDeliveriesQuery pages through deliveries still open for offers,
// newest first.
type ListPendingDeliveriesQuery struct {
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewListPendingDeliveriesQuery applies DefaultPageSize when limit is zero.
func NewListPendingDeliveriesQuery(limit, offset int) (ListPendingDeliveriesQuery, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 0 || limit > MaxPageSize {
		return ListPendingDeliveriesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if offset < 0 {
		return ListPendingDeliveriesQuery{}, errs.NewValueIsInvalidErrorWithCause("offset", errors.New("must not be negative"))
	}

	return ListPendingDeliveriesQuery{limit: limit, offset: offset, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPendingDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListPendingDeliveriesQueryIsNotConstructed)
}

func (q ListPendingDeliveriesQuery) Limit() int  { return q.limit }
func (q ListPendingDeliveriesQuery) Offset() int { return q.offset }
