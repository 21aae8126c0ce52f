// Package scan turns a decoded QR payload into a structured restocking event.
package scan

import (
	"strconv"
	"strings"

	"github.com/smartmeal/pantry-service/pkg/apperr"
)

// Record is the structured result of decoding one QR payload. Quantity is the
// count scanned in this event, not a replacement value.
type Record struct {
	ItemName string
	Day      int
	Month    int
	Year     int
	Quantity int
}

// YearPolicy expands a two-digit year from the payload to a full year. Kept
// as a swappable function because the default cannot represent 19xx dates and
// breaks after 2099.
type YearPolicy func(yy int) int

// PrefixCentury is the default policy: "24" becomes 2024.
func PrefixCentury(yy int) int { return 2000 + yy }

const fieldCount = 5

type Parser struct {
	yearPolicy YearPolicy
}

// NewParser builds a parser; a nil policy selects PrefixCentury.
func NewParser(policy YearPolicy) *Parser {
	if policy == nil {
		policy = PrefixCentury
	}
	return &Parser{yearPolicy: policy}
}

// Parse decodes a payload of the form ITEMNAME-DD-MM-YY-QUANTITY. Calendar
// validity of the date is not checked here; the expiration scanner skips
// rows whose triple never names a real date.
func (p *Parser) Parse(text string) (*Record, error) {
	parts := strings.Split(text, "-")
	if len(parts) != fieldCount {
		return nil, apperr.Newf(apperr.CodeFormat, "expected %d fields, got %d", fieldCount, len(parts))
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, apperr.Newf(apperr.CodeFormat, "day %q is not an integer", parts[1])
	}
	month, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, apperr.Newf(apperr.CodeFormat, "month %q is not an integer", parts[2])
	}
	yy, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, apperr.Newf(apperr.CodeFormat, "year %q is not an integer", parts[3])
	}
	quantity, err := strconv.Atoi(parts[4])
	if err != nil || quantity <= 0 {
		return nil, apperr.Newf(apperr.CodeFormat, "quantity %q is not a positive integer", parts[4])
	}

	return &Record{
		ItemName: parts[0],
		Day:      day,
		Month:    month,
		Year:     p.yearPolicy(yy),
		Quantity: quantity,
	}, nil
}
