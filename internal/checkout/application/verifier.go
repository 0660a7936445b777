package application

import (
	"context"
	"math/rand/v2"

	"github.com/loukys/storefront/internal/checkout/domain"
)

// RandomVerifier approves a payment with a fixed probability. It is the
// demo stand-in for a real gateway callback.
type RandomVerifier struct {
	SuccessRate float64
}

func (v RandomVerifier) AttemptVerify(context.Context) domain.Outcome {
	if rand.Float64() < v.SuccessRate {
		return domain.OutcomeApproved
	}
	return domain.OutcomePending
}
