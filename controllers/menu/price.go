package menu

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vTempo/afroditis-delicacies/models"
)

// ParsePrice parses an admin-entered price. It must be a finite number
// greater than zero.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0, models.Invalid("price", "price is required")
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || !models.ValidPrice(p) {
		return 0, models.Invalid("price", "price must be a number greater than zero")
	}
	return p, nil
}

// ParseSecondPrice is ParsePrice for the optional small-size price; blank
// means no second price.
func ParseSecondPrice(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	p, err := ParsePrice(raw)
	if err != nil {
		return nil, models.Invalid("secondPrice", "second price must be a number greater than zero")
	}
	return &p, nil
}

// RawPrice accepts a price sent either as a JSON number or a JSON string.
type RawPrice string

func (r *RawPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RawPrice(s)
		return nil
	}
	*r = RawPrice(b)
	return nil
}
