package parsers

// List payloads arrive in several shapes: a bare array, an object holding
// the array under one of a few conventional keys, or an object nesting it
// one level deeper. FindArray tries those in order; the first array found
// wins. No array means an empty listing, never an error.

var rowArrayKeys = []string{"data", "items", "list", "records", "logs", "tokens", "result"}

func FindArray(payload any) ([]any, bool) {
	if rows, ok := payload.([]any); ok {
		return rows, true
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}

	for _, key := range rowArrayKeys {
		if rows, ok := obj[key].([]any); ok {
			return rows, true
		}
	}

	// Fallback scan: the object's own values first, then one level of
	// nested object values.
	for _, value := range obj {
		if rows, ok := value.([]any); ok {
			return rows, true
		}
	}
	for _, value := range obj {
		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for _, inner := range nested {
			if rows, ok := inner.([]any); ok {
				return rows, true
			}
		}
	}

	return nil, false
}

// RowParser turns one raw row into an entity; ok is false when the row is
// missing a mandatory identity field.
type RowParser[T any] func(row map[string]any) (T, bool)

// ParseList locates the row array inside an unwrapped payload and parses
// each row. Rows that are not objects or fail identity validation are
// dropped, not defaulted; the dropped count is returned so callers can
// surface silent data loss. One malformed row never fails the page.
func ParseList[T any](payload any, parse RowParser[T]) ([]T, int) {
	rows, ok := FindArray(payload)
	if !ok {
		return []T{}, 0
	}

	out := make([]T, 0, len(rows))
	dropped := 0
	for _, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		entity, ok := parse(row)
		if !ok {
			dropped++
			continue
		}
		out = append(out, entity)
	}
	return out, dropped
}

// ParseOne applies the same per-field extraction to a single unwrapped
// object; ok is false when the payload is not an object or identity
// fields are missing.
func ParseOne[T any](payload any, parse RowParser[T]) (T, bool) {
	var zero T
	row, ok := payload.(map[string]any)
	if !ok {
		return zero, false
	}
	return parse(row)
}
