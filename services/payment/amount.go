package payment

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a JSON amount given either as a number or a numeric
// string. Absent, null, empty and zero amounts are ErrAmountRequired.
func ParseAmount(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrAmountRequired
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, ErrInvalidAmount
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, ErrAmountRequired
		}
	} else {
		text = string(raw)
	}

	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if amount == 0 {
		return 0, ErrAmountRequired
	}
	if amount < 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// ToMinorUnits converts a major-unit amount to the gateway's smallest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
