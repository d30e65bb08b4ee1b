package entities

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"agency_estimate/internal/domain/pricing"
)

// FlexNumber is a non-negative whole quantity that may arrive on the wire either
// as a JSON number or as a digit-grouped string ("2,000").
//
// Decoding never fails: input that cannot be read as a non-negative integer is
// kept as Present with Malformed set and a zero Value, so aggregation can still
// render a partial result.
type FlexNumber struct {
	Value     int64
	Present   bool
	Malformed bool
}

// Number returns a present, well-formed FlexNumber.
func Number(v int64) FlexNumber {
	return FlexNumber{Value: v, Present: true}
}

// malformedToken is what a malformed value encodes to; decoding it yields a
// malformed value again, so stored sessions and estimates keep the marker.
const malformedToken = `"malformed"`

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	if n.Malformed {
		return []byte(malformedToken), nil
	}
	return []byte(strconv.FormatInt(n.Value, 10)), nil
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	*n = FlexNumber{}
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = FlexNumber{Present: true, Malformed: true}
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		v, err := pricing.ParseAmountStrict(s)
		if err != nil {
			*n = FlexNumber{Present: true, Malformed: true}
			return nil
		}
		*n = Number(v)
		return nil
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			*n = FlexNumber{Present: true, Malformed: true}
			return nil
		}
		*n = Number(v)
		return nil
	}

	// 1000.0 and 1e3 are whole numbers too. float64(math.MaxInt64) rounds up
	// to 2^63, which no longer fits.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		*n = FlexNumber{Present: true, Malformed: true}
		return nil
	}
	*n = Number(int64(f))
	return nil
}
