package parsers

import (
	"reflect"
	"testing"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body any
		want any
	}{
		{"envelope with object data", map[string]any{"success": true, "data": map[string]any{"id": 1.0}}, map[string]any{"id": 1.0}},
		{"envelope with array data", map[string]any{"data": []any{1.0, 2.0}}, []any{1.0, 2.0}},
		{"envelope with nil data", map[string]any{"data": nil}, nil},
		{"bare object", map[string]any{"id": 1.0}, map[string]any{"id": 1.0}},
		{"bare array", []any{1.0}, []any{1.0}},
		{"scalar", "hello", "hello"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		got := Unwrap(tt.body)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Unwrap = %#v, want %#v", tt.name, got, tt.want)
		}
	}
}

func TestUnwrapIdempotent(t *testing.T) {
	inner := map[string]any{"id": 1.0}
	once := Unwrap(map[string]any{"data": inner})
	// The inner body has no data key, so a second unwrap is a no-op.
	twice := Unwrap(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second Unwrap changed the payload: %#v vs %#v", once, twice)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"declared failure", map[string]any{"success": false, "message": "quota exceeded"}, "quota exceeded"},
		{"failure without message", map[string]any{"success": false}, "the server reported a failure without a message"},
		{"failure with blank message", map[string]any{"success": false, "message": "  "}, "the server reported a failure without a message"},
		{"success", map[string]any{"success": true, "message": "ignored"}, ""},
		{"no success flag", map[string]any{"message": "ignored"}, ""},
		{"success wrong type", map[string]any{"success": "false"}, ""},
		{"array body", []any{1.0}, ""},
		{"nil body", nil, ""},
	}

	for _, tt := range tests {
		if got := ErrorMessage(tt.body); got != tt.want {
			t.Errorf("%s: ErrorMessage = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDeclaredFailureStillCarriesData(t *testing.T) {
	// A declared failure may still carry a data field; callers must check
	// ErrorMessage before trusting Unwrap.
	body := map[string]any{
		"success": false,
		"message": "quota exceeded",
		"data":    map[string]any{"stale": true},
	}
	if msg := ErrorMessage(body); msg != "quota exceeded" {
		t.Fatalf("ErrorMessage = %q", msg)
	}
	payload := Unwrap(body)
	if payload == nil {
		t.Fatal("Unwrap should still return the data field")
	}
}
