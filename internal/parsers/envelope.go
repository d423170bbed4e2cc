package parsers

import "strings"

// Most gateway endpoints wrap their payload in {success, message, data},
// but legacy ones return the payload bare. Unwrap and ErrorMessage split
// the two concerns: callers must consult ErrorMessage before trusting
// Unwrap's result, because a declared failure may still carry a data field
// with stale or partial content.

// Unwrap returns body's data field when present, otherwise body unchanged.
func Unwrap(body any) any {
	if obj, ok := body.(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			return data
		}
	}
	return body
}

// ErrorMessage returns the declared failure message when body is an
// envelope with success == false, else "". An absent or true success flag
// means no declared error, whatever else the body holds.
func ErrorMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	success, ok := obj["success"].(bool)
	if !ok || success {
		return ""
	}
	if msg, ok := obj["message"].(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return "the server reported a failure without a message"
}
