package dto

// DecrementOutcome reports how a consumption landed: either the item survived
// with NewQuantity, or it hit zero and was removed.
type DecrementOutcome struct {
	Name        string
	Deleted     bool
	NewQuantity int
}

type MovementFilters struct {
	ItemName     string
	MovementType string
	Limit        int
}
