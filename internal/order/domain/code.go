package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewRedemptionCode returns the token delivered to the buyer: 16
// uppercase-alphanumeric characters in dash-separated blocks of 4,
// e.g. AB3F-9XQ2-K01M-77ZD.
func NewRedemptionCode() string {
	var b strings.Builder
	b.Grow(19)
	for i := 0; i < 16; i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// NewOrderID returns an identifier unique across sessions and tabs.
func NewOrderID() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), frag)
}
