package fieldvalue

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantSet   bool
		wantEmpty bool
		wantRaw   string
	}{
		{"absent", `{}`, false, true, ""},
		{"null", `{"v": null}`, true, true, ""},
		{"blank string", `{"v": "  "}`, true, true, ""},
		{"json number", `{"v": 120.5}`, true, false, "120.5"},
		{"numeric string", `{"v": " 98 "}`, true, false, "98"},
		{"garbage string", `{"v": "abc"}`, true, false, "abc"},
		{"boolean", `{"v": true}`, true, false, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				V Number `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.payload), &body); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if body.V.IsSet() != tt.wantSet {
				t.Errorf("IsSet = %v, want %v", body.V.IsSet(), tt.wantSet)
			}
			if body.V.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty = %v, want %v", body.V.IsEmpty(), tt.wantEmpty)
			}
			if body.V.Raw() != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", body.V.Raw(), tt.wantRaw)
			}
		})
	}
}

func TestNumber_Parsing(t *testing.T) {
	d, err := NumberOf("72.5").Decimal()
	if err != nil || d.String() != "72.5" {
		t.Fatalf("Decimal = %s, %v", d, err)
	}

	if _, err := NumberOf("x").Decimal(); !errors.Is(err, ErrNotNumber) {
		t.Errorf("Decimal(x) err = %v, want ErrNotNumber", err)
	}

	nd, err := Number{}.NullDecimal()
	if err != nil || nd.Valid {
		t.Errorf("empty NullDecimal = %+v, %v; want invalid, nil", nd, err)
	}

	v, err := NumberOf("120.0").IntPtr()
	if err != nil || v == nil || *v != 120 {
		t.Errorf("IntPtr(120.0) = %v, %v", v, err)
	}

	if _, err := NumberOf("120.5").IntPtr(); !errors.Is(err, ErrNotInteger) {
		t.Errorf("IntPtr(120.5) err = %v, want ErrNotInteger", err)
	}

	if v, err := (Number{}).IntPtr(); v != nil || err != nil {
		t.Errorf("empty IntPtr = %v, %v; want nil, nil", v, err)
	}
}

func TestNumber_IntPtrRange(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"9223372036854775807", 9223372036854775807, false},
		{"-9223372036854775808", -9223372036854775808, false},
		{"9223372036854775808", 0, true},
		{"-9223372036854775809", 0, true},
		{"18446744073709551736", 0, true},
		{"1e19", 0, true},
		{"1e2", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := NumberOf(tt.raw).IntPtr()
			if tt.wantErr {
				if !errors.Is(err, ErrNotInteger) {
					t.Fatalf("IntPtr(%s) = %v, %v; want ErrNotInteger", tt.raw, v, err)
				}
				return
			}
			if err != nil || v == nil || *v != tt.want {
				t.Fatalf("IntPtr(%s) = %v, %v; want %d", tt.raw, v, err, tt.want)
			}
		})
	}
}

func TestFlag_Unmarshal(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{`true`, 1},
		{`false`, 0},
		{`null`, 0},
		{`1`, 1},
		{`0`, 0},
		{`2`, 1},
		{`"on"`, 1},
		{`"1"`, 1},
		{`"0"`, 0},
		{`"false"`, 0},
		{`"No"`, 0},
		{`""`, 0},
		{`"yes"`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			var f Flag
			if err := json.Unmarshal([]byte(tt.payload), &f); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.payload, err)
			}
			if !f.IsSet() {
				t.Error("flag should be marked as set")
			}
			if f.Int() != tt.want {
				t.Errorf("Flag(%s).Int() = %d, want %d", tt.payload, f.Int(), tt.want)
			}
		})
	}
}
