package commands

import (
	"errors"
	"time"

	"parcelhub/internal/pkg/errs"
	"parcelhub/internal/pkg/guard"
)

// DefaultExpireBatchSize caps how many offers one run rejects.
const DefaultExpireBatchSize = 100

var ErrExpireStaleOffersCommandIsNotConstructed = errors.New(
	"ExpireStaleOffersCommand must be created via NewExpireStaleOffersCommand constructor",
)

// ExpireStaleOffersCommand rejects pending offers older than ttl.
type ExpireStaleOffersCommand struct { //nolint:recvcheck //using for validation
	ttl       time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireStaleOffersCommand(ttl time.Duration, batchSize int) (ExpireStaleOffersCommand, error) {
	if ttl <= 0 {
		return ExpireStaleOffersCommand{}, errs.NewValueIsInvalidErrorWithCause("ttl", errors.New("must be positive"))
	}
	if batchSize <= 0 {
		batchSize = DefaultExpireBatchSize
	}

	return ExpireStaleOffersCommand{
		ttl:       ttl,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireStaleOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleOffersCommandIsNotConstructed)
}

func (c ExpireStaleOffersCommand) TTL() time.Duration { return c.ttl }
func (c ExpireStaleOffersCommand) BatchSize() int     { return c.batchSize }
