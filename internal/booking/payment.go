package booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// PaymentProcessor is the pluggable charge step of a booking.  Charge
// is invoked while the engine holds all seat locks; implementations
// should therefore keep it as short as practical.  Refund is the
// compensation hook, called when a later step fails after Charge
// succeeded or partially succeeded; it must be an idempotent no-op when
// nothing was charged.
type PaymentProcessor interface {
	Charge(ctx context.Context, t *model.Ticket) error
	Refund(ctx context.Context, t *model.Ticket) error
}

// GatewaySimulator stands in for a real payment gateway.  It rejects a
// configurable fraction of charges at random, which is enough to
// exercise the engine's compensation path under load.  A zero
// FailureRate never fails.
type GatewaySimulator struct {
	FailureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGatewaySimulator seeds the simulator.  failureRate is clamped to
// [0, 1].
func NewGatewaySimulator(failureRate float64, seed int64) *GatewaySimulator {
	if failureRate < 0 {
		failureRate = 0
	}
	if failureRate > 1 {
		failureRate = 1
	}
	return &GatewaySimulator{
		FailureRate: failureRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Charge approves or rejects the payment for a ticket.
func (g *GatewaySimulator) Charge(ctx context.Context, t *model.Ticket) error {
	if t == nil {
		return errors.New("charge: nil ticket")
	}
	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()
	if roll < g.FailureRate {
		return errors.New("gateway rejected charge")
	}
	return nil
}

// Refund reverses a charge.  The simulator holds no money, so this is
// the idempotent no-op the compensation contract asks for.
func (g *GatewaySimulator) Refund(ctx context.Context, t *model.Ticket) error {
	return nil
}
