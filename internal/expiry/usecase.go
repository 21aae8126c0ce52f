package expiry

import (
	"context"
	"time"

	"github.com/smartmeal/pantry-service/internal/model"
)

type UseCase interface {
	// ScanExpiring returns every item whose expiration date falls on or
	// before now+horizonDays (inclusive policy; already-expired items
	// qualify), sorted by ascending expiration. Rows whose stored date is
	// not a valid calendar date are skipped, not fatal.
	ScanExpiring(ctx context.Context, now time.Time, horizonDays int) ([]model.ExpiringItem, error)

	// NotifyExpiring runs a scan with the configured horizon and emails the
	// digest when anything qualifies. Returns the number of expiring items.
	NotifyExpiring(ctx context.Context, now time.Time) (int, error)
}

// Notifier delivers a notification; transport (SES, SMTP, webhook) is opaque
// to the engine, which supplies only subject and body.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) (receipt string, err error)
}
