package commands

import (
	"errors"

	"parcelhub/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var settlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parcelhub",
	Name:      "settlements_total",
	Help:      "Settlement operations (accept, assign, complete, refund) by outcome.",
}, []string{"operation", "outcome"})

func observeSettlement(operation string, err error) {
	settlementsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, errs.ErrConflict):
		return "conflict"
	case errors.Is(err, errs.ErrForbidden):
		return "forbidden"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
