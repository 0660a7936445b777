package domain

import (
	"fmt"
	"time"
)

type State string

const (
	StateIdle            State = "idle"
	StateAwaitingPayment State = "awaiting_payment"
	StateCompleted       State = "completed"
	StateExpired         State = "expired"
)

// Outcome is what a verification attempt resolves to. Pending does not
// expire the session; only countdown exhaustion does.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomePending  Outcome = "pending"
)

// Session is one attempt to pay for the current cart, bounded by the
// countdown deadline.
type Session struct {
	OrderID       string
	UserID        string
	Total         int64
	PaymentMethod string
	StartedAt     time.Time
	Deadline      time.Time
	State         State
}

func (s *Session) Remaining(now time.Time) time.Duration {
	if d := s.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// WarningWindow is the remaining time below which the countdown display
// switches to its warning state.
const WarningWindow = time.Minute

// FormatCountdown renders remaining time as zero-padded minutes:seconds.
func FormatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	secs := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// QRPayload is the opaque payment-reference string encoded into the QR
// image shown to the buyer.
func QRPayload(orderID string, total int64, now time.Time) string {
	return fmt.Sprintf("LoukysStore:%s:%d:%d", orderID, total, now.UnixMilli())
}
