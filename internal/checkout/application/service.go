package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	cartdomain "github.com/loukys/storefront/internal/cart/domain"
	"github.com/loukys/storefront/internal/checkout/domain"
	"github.com/loukys/storefront/internal/notify"
	orderapp "github.com/loukys/storefront/internal/order/application"
	orderdomain "github.com/loukys/storefront/internal/order/domain"
	"github.com/loukys/storefront/pkg/events"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrLoginRequired = errors.New("login required to checkout")
	ErrSessionActive = errors.New("a payment session is already active")
)

type Config struct {
	Countdown   time.Duration
	VerifyDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Countdown <= 0 {
		c.Countdown = 900 * time.Second
	}
	if c.VerifyDelay <= 0 {
		c.VerifyDelay = 5 * time.Second
	}
	return c
}

// session is the runtime state behind one checkout attempt: the domain
// snapshot plus the timers that drive it.
type session struct {
	domain.Session
	items     []cartdomain.Item
	countdown *time.Timer
	verify    *time.Timer
	done      chan struct{}
}

// Service drives a single payment session from initiation to a terminal
// outcome. Timer callbacks fire on their own goroutines, so all state
// transitions go through the mutex and check the session is still the
// active one before acting.
type Service struct {
	log      *slog.Logger
	cfg      Config
	cart     CartGateway
	auth     Authenticator
	orders   Materializer
	verifier Verifier
	notifier notify.Notifier
	events   events.Publisher
	view     CountdownView
	qr       QRRenderer

	mu     sync.Mutex
	active *session
}

func NewService(log *slog.Logger, cfg Config, cart CartGateway, auth Authenticator, orders Materializer, verifier Verifier, notifier notify.Notifier, pub events.Publisher) *Service {
	return &Service{
		log:      log,
		cfg:      cfg.withDefaults(),
		cart:     cart,
		auth:     auth,
		orders:   orders,
		verifier: verifier,
		notifier: notifier,
		events:   pub,
	}
}

// SetCountdownView attaches the per-second countdown display hook.
func (s *Service) SetCountdownView(v CountdownView) { s.view = v }

// SetQRRenderer attaches the QR code target.
func (s *Service) SetQRRenderer(r QRRenderer) { s.qr = r }

// Initiate starts a payment session for the current cart. It refuses an
// empty cart and an unauthenticated caller (who should be redirected to
// login first), and refuses to stack a second session on an active one.
func (s *Service) Initiate(ctx context.Context, paymentMethod string) (domain.Session, error) {
	if paymentMethod == "" {
		paymentMethod = "qris"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return domain.Session{}, ErrSessionActive
	}

	items, err := s.cart.Items(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if len(items) == 0 {
		s.notifier.Notify("Your cart is empty!", notify.SeverityError)
		return domain.Session{}, ErrEmptyCart
	}

	user, err := s.auth.Current(ctx)
	if err != nil {
		s.notifier.Notify("You need to login to continue", notify.SeverityError)
		return domain.Session{}, ErrLoginRequired
	}

	now := time.Now().UTC()
	sess := &session{
		Session: domain.Session{
			OrderID:       orderdomain.NewOrderID(),
			UserID:        user.ID,
			Total:         cartdomain.Total(items),
			PaymentMethod: paymentMethod,
			StartedAt:     now,
			Deadline:      now.Add(s.cfg.Countdown),
			State:         domain.StateAwaitingPayment,
		},
		items: append([]cartdomain.Item(nil), items...),
		done:  make(chan struct{}),
	}

	if s.qr != nil {
		s.qr.Render(domain.QRPayload(sess.OrderID, sess.Total, now))
	}

	sess.countdown = time.AfterFunc(s.cfg.Countdown, func() { s.expire(sess) })
	sess.verify = time.AfterFunc(s.cfg.VerifyDelay, func() { s.evaluate(sess) })
	if s.view != nil {
		go s.tickCountdown(sess)
	}

	s.active = sess
	s.log.Info("payment session started", "order_id", sess.OrderID, "total", sess.Total, "method", paymentMethod)
	return sess.Session, nil
}

// Status reports the active session and its remaining time. The second
// return is false when the machine is idle.
func (s *Service) Status() (domain.Session, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return domain.Session{}, 0, false
	}
	return s.active.Session, s.active.Remaining(time.Now().UTC()), true
}

// Close abandons the active session, e.g. the buyer dismissed the
// payment view. Every pending timer is cancelled, so an abandoned
// session can never complete behind the buyer's back.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.log.Info("payment session abandoned", "order_id", s.active.OrderID)
	s.stopTimers(s.active)
	s.active = nil
}

// evaluate is the one-shot outcome determination, fired a few seconds
// after initiation. A pending outcome leaves the session waiting for the
// countdown.
func (s *Service) evaluate(sess *session) {
	outcome := s.verifier.AttemptVerify(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != sess || sess.State != domain.StateAwaitingPayment {
		return
	}
	if outcome != domain.OutcomeApproved {
		s.log.Info("payment verification pending", "order_id", sess.OrderID)
		return
	}
	s.complete(sess)
}

// complete must be called with the lock held.
func (s *Service) complete(sess *session) {
	s.stopTimers(sess)
	sess.State = domain.StateCompleted
	s.active = nil

	ctx := context.Background()
	_, err := s.orders.Materialize(ctx, sess.items, orderapp.SessionInfo{
		OrderID:       sess.OrderID,
		UserID:        sess.UserID,
		PaymentMethod: sess.PaymentMethod,
	})
	if err != nil {
		s.log.Error("order materialization failed", "order_id", sess.OrderID, "err", err)
		s.notifier.Notify("Payment could not be completed. Please contact support.", notify.SeverityError)
		return
	}
	if err := s.cart.Clear(ctx); err != nil {
		s.log.Error("cart clear failed", "order_id", sess.OrderID, "err", err)
	}
	s.notifier.Notify("Payment successful! Your code has been delivered. Check your dashboard.", notify.SeveritySuccess)
}

func (s *Service) expire(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != sess || sess.State != domain.StateAwaitingPayment {
		return
	}
	s.stopTimers(sess)
	sess.State = domain.StateExpired
	s.active = nil

	s.log.Info("payment session expired", "order_id", sess.OrderID)
	s.notifier.Notify("Payment session expired. Please try again.", notify.SeverityError)

	payload, _ := json.Marshal(map[string]any{"orderId": sess.OrderID, "total": sess.Total})
	if err := s.events.Publish(context.Background(), events.Event{
		Type:        events.TypePaymentExpired,
		AggregateID: sess.OrderID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.log.Warn("event publish failed", "type", events.TypePaymentExpired, "err", err)
	}
}

// stopTimers must be called with the lock held. Stopping both timers on
// every exit transition is what keeps an abandoned or expired session
// from resolving later.
func (s *Service) stopTimers(sess *session) {
	if sess.countdown != nil {
		sess.countdown.Stop()
	}
	if sess.verify != nil {
		sess.verify.Stop()
	}
	select {
	case <-sess.done:
	default:
		close(sess.done)
	}
}

func (s *Service) tickCountdown(sess *session) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-sess.done:
			return
		case <-t.C:
			rem := sess.Remaining(time.Now().UTC())
			s.view.Tick(domain.FormatCountdown(rem), rem < domain.WarningWindow)
		}
	}
}
