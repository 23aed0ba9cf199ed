package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AgeInput holds the age exactly as the client sent it. The web form posts
// it as a string, other clients as a number; null, "" and an absent field all
// mean "not provided".
type AgeInput string

// AgeOf builds an AgeInput from an integer.
func AgeOf(n int) AgeInput {
	return AgeInput(strconv.Itoa(n))
}

func (a *AgeInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AgeInput(strings.TrimSpace(s))
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		*a = AgeInput(b)
	default:
		return fmt.Errorf("age: unsupported JSON value %s", b)
	}
	return nil
}

// Provided reports whether the client supplied an age.
func (a AgeInput) Provided() bool {
	return strings.TrimSpace(string(a)) != ""
}

// Int parses the age as a whole number. "30" and "30.0" parse; "30.5",
// "abc", NaN and infinities do not.
func (a AgeInput) Int() (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("age %q is not a whole number", string(a))
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("age %q is out of range", string(a))
	}
	return int(f), nil
}
