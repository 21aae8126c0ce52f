package model

import "time"

// Item is a single perishable item on hand, keyed by name. The expiration
// date is stored as discrete columns because scanned payloads carry the
// parts separately; ExpirationDate validates the triple on the way out.
type Item struct {
	Name     string `db:"name"`
	Quantity int    `db:"quantity"`
	Day      int    `db:"day"`
	Month    int    `db:"month"`
	Year     int    `db:"year"`
}

// ExpirationDate builds the calendar date from the stored triple. The second
// return is false when the triple does not name a real date (e.g. day 32, or
// Feb 30 left behind by a bad scan).
func (i Item) ExpirationDate() (time.Time, bool) {
	t := time.Date(i.Year, time.Month(i.Month), i.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != i.Year || t.Month() != time.Month(i.Month) || t.Day() != i.Day {
		return time.Time{}, false
	}
	return t, true
}

type ItemMovement struct {
	ID             string    `db:"id"`
	ItemName       string    `db:"item_name"`
	MovementType   string    `db:"movement_type"`
	QuantityChange int       `db:"quantity_change"`
	QuantityBefore int       `db:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after"`
	CreatedAt      time.Time `db:"created_at"`
}

const (
	MovementTypeScan    = "scan"
	MovementTypeConsume = "consume"
)

// ExpiringItem is what the expiration scanner hands to the notifier.
type ExpiringItem struct {
	Name       string
	Quantity   int
	Expiration time.Time
}
