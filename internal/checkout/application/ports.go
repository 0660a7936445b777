package application

import (
	"context"

	cartdomain "github.com/loukys/storefront/internal/cart/domain"
	"github.com/loukys/storefront/internal/checkout/domain"
	identitydomain "github.com/loukys/storefront/internal/identity/domain"
	orderapp "github.com/loukys/storefront/internal/order/application"
	orderdomain "github.com/loukys/storefront/internal/order/domain"
)

type CartGateway interface {
	Items(ctx context.Context) ([]cartdomain.Item, error)
	Clear(ctx context.Context) error
}

type Authenticator interface {
	Current(ctx context.Context) (identitydomain.User, error)
}

type Materializer interface {
	Materialize(ctx context.Context, snapshot []cartdomain.Item, sess orderapp.SessionInfo) (orderdomain.Order, error)
}

// Verifier stands in for the external payment gateway callback. A
// Pending outcome leaves the session waiting; only the countdown can
// expire it.
type Verifier interface {
	AttemptVerify(ctx context.Context) domain.Outcome
}

// CountdownView receives the formatted remaining time once per second
// while a session is awaiting payment.
type CountdownView interface {
	Tick(display string, warning bool)
}

// QRRenderer paints the payment reference for the buyer to scan.
type QRRenderer interface {
	Render(data string)
}
