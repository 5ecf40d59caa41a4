package fieldvalue

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Flag is a yes/no field normalized to exactly 0 or 1.
type Flag struct {
	on  bool
	set bool
}

// FlagOf builds a present Flag.
func FlagOf(on bool) Flag {
	return Flag{on: on, set: true}
}

var falseWords = map[string]bool{
	"":      true,
	"0":     true,
	"false": true,
	"f":     true,
	"no":    true,
	"n":     true,
	"off":   true,
	"null":  true,
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	f.set = true
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		f.on = false
	case bytes.Equal(b, []byte("true")):
		f.on = true
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.on = !falseWords[strings.ToLower(strings.TrimSpace(s))]
	case len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')):
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return err
		}
		f.on = !d.IsZero()
	default:
		// Objects and arrays: truthy when non-empty.
		f.on = len(b) > 2
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Int())
}

func (f Flag) IsSet() bool { return f.set }

func (f Flag) Bool() bool { return f.on }

// Int returns 1 when the flag is on and 0 otherwise.
func (f Flag) Int() int {
	if f.on {
		return 1
	}
	return 0
}
