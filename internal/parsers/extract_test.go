package parsers

import (
	"testing"
	"time"
)

func TestGetNumberCoercion(t *testing.T) {
	tests := []struct {
		name   string
		obj    any
		path   []string
		want   float64
		wantOK bool
	}{
		{"plain number", map[string]any{"id": 42.0}, []string{"id"}, 42, true},
		{"string number", map[string]any{"id": "42"}, []string{"id"}, 42, true},
		{"string float", map[string]any{"q": "3.5"}, []string{"q"}, 3.5, true},
		{"partial parse", map[string]any{"id": "42abc"}, nil, 0, false},
		{"empty string", map[string]any{"id": ""}, []string{"id"}, 0, false},
		{"bool value", map[string]any{"id": true}, []string{"id"}, 0, false},
		{"missing key", map[string]any{"id": 42.0}, []string{"other"}, 0, false},
		{"nested", map[string]any{"user": map[string]any{"quota": "100"}}, []string{"user", "quota"}, 100, true},
		{"non-object mid-path", map[string]any{"user": "nope"}, []string{"user", "quota"}, 0, false},
		{"nil root", nil, []string{"id"}, 0, false},
	}

	for _, tt := range tests {
		path := tt.path
		if path == nil {
			path = []string{"id"}
		}
		got, ok := GetNumber(tt.obj, path...)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%s: GetNumber = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGetString(t *testing.T) {
	obj := map[string]any{
		"name":  "alice",
		"id":    7.0,
		"ratio": 1.5,
		"flag":  true,
	}

	if v, ok := GetString(obj, "name"); !ok || v != "alice" {
		t.Errorf("GetString(name) = (%q, %v)", v, ok)
	}
	// Numbers are formatted: the gateway sends ids both ways.
	if v, ok := GetString(obj, "id"); !ok || v != "7" {
		t.Errorf("GetString(id) = (%q, %v), want \"7\"", v, ok)
	}
	if v, ok := GetString(obj, "ratio"); !ok || v != "1.5" {
		t.Errorf("GetString(ratio) = (%q, %v), want \"1.5\"", v, ok)
	}
	if _, ok := GetString(obj, "flag"); ok {
		t.Error("GetString(flag) should not coerce booleans")
	}
	if _, ok := GetString(obj, "missing"); ok {
		t.Error("GetString(missing) should report absence")
	}
}

func TestGetBool(t *testing.T) {
	obj := map[string]any{
		"yes":  true,
		"str":  "true",
		"bad":  "yep",
		"num":  1.0,
		"none": nil,
	}

	if v, ok := GetBool(obj, "yes"); !ok || !v {
		t.Errorf("GetBool(yes) = (%v, %v)", v, ok)
	}
	if v, ok := GetBool(obj, "str"); !ok || !v {
		t.Errorf("GetBool(str) = (%v, %v)", v, ok)
	}
	if _, ok := GetBool(obj, "bad"); ok {
		t.Error("GetBool(bad) should fail")
	}
	if _, ok := GetBool(obj, "num"); ok {
		t.Error("GetBool(num) should not coerce numbers")
	}
	if _, ok := GetBool(obj, "none"); ok {
		t.Error("GetBool(none) should fail")
	}
}

func TestGetTime(t *testing.T) {
	obj := map[string]any{
		"epoch":  1700000000.0,
		"milli":  1700000000000.0,
		"str":    "2025-01-15 12:00:00",
		"date":   "2025-01-15",
		"unset":  0.0,
		"neg":    -1.0,
		"string": "not a time",
	}

	want := time.Unix(1700000000, 0).UTC()
	if v, ok := GetTime(obj, "epoch"); !ok || !v.Equal(want) {
		t.Errorf("GetTime(epoch) = (%v, %v), want %v", v, ok, want)
	}
	if v, ok := GetTime(obj, "milli"); !ok || !v.Equal(want) {
		t.Errorf("GetTime(milli) = (%v, %v), want %v", v, ok, want)
	}
	if _, ok := GetTime(obj, "str"); !ok {
		t.Error("GetTime(str) should parse datetime strings")
	}
	if _, ok := GetTime(obj, "date"); !ok {
		t.Error("GetTime(date) should parse date strings")
	}
	// -1 and 0 mean "unset" on this wire.
	if _, ok := GetTime(obj, "unset"); ok {
		t.Error("GetTime(unset) should treat 0 as absent")
	}
	if _, ok := GetTime(obj, "neg"); ok {
		t.Error("GetTime(neg) should treat -1 as absent")
	}
	if _, ok := GetTime(obj, "string"); ok {
		t.Error("GetTime(string) should fail on garbage")
	}
}
