package submit

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrRejected is the single outcome of any anti-automation trip. The
// wrapping message carries the detail for the operator log; the public
// response must stay generic so bots get no tuning oracle.
var ErrRejected = errors.New("submission rejected")

// Guard holds the anti-automation checks: a honeypot field that humans
// never see, and a minimum dwell time between form load and submit.
// Both are advisory spam filters, not a security boundary; a legitimate
// user with aggressive autofill can trip them and that is an accepted
// tradeoff.
type Guard struct {
	// MinDwell below which a submission counts as bot-speed filling.
	// Zero disables the timing check.
	MinDwell time.Duration
}

// Check runs before any field validation so bot traffic never learns
// the schema through field-level errors. loadedAt is the client-
// reported epoch-millis render time; zero means the client did not
// report one and the timing check is skipped (the honeypot still
// applies).
func (g Guard) Check(honeypot string, loadedAt int64, now time.Time) error {
	if strings.TrimSpace(honeypot) != "" {
		return errors.Wrap(ErrRejected, "honeypot field populated")
	}

	if g.MinDwell > 0 && loadedAt > 0 {
		elapsed := now.Sub(time.UnixMilli(loadedAt))
		if elapsed < g.MinDwell {
			return errors.Wrapf(ErrRejected, "submitted after %s, minimum dwell is %s", elapsed, g.MinDwell)
		}
	}
	return nil
}
