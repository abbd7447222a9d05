package extract

import (
	"encoding/json"
	"strings"

	"github.com/hupe1980/careermesh/core"
)

const jsonFence = "```json"

// Candidate recovers a structured candidate value from a raw reply. One
// layer of fenced markup is stripped if present, preferring a fence tagged
// as JSON over the first generic fence; otherwise the full text is the
// candidate. The remainder must parse strictly as an object or array;
// any bracket/quote damage is a hard failure and yields nil. No semantic
// repair is attempted.
func Candidate(raw string) any {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil
	}

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil
	}
	switch v := value.(type) {
	case map[string]any, []any:
		return v
	default:
		return nil
	}
}

// Object returns the candidate as an object, or nil.
func Object(raw string) map[string]any {
	obj, _ := Candidate(raw).(map[string]any)
	return obj
}

// Array returns the candidate as an array, or nil.
func Array(raw string) []any {
	arr, _ := Candidate(raw).([]any)
	return arr
}

// StripFences removes one layer of markdown code fencing. A ```json fence
// wins over a generic fence; text without fences passes through trimmed.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if i := strings.Index(cleaned, jsonFence); i >= 0 {
		return fencedBody(cleaned[i+len(jsonFence):])
	}
	if i := strings.Index(cleaned, "```"); i >= 0 {
		return fencedBody(cleaned[i+3:])
	}
	return cleaned
}

// fencedBody trims the body up to the closing fence, if any.
func fencedBody(rest string) string {
	if j := strings.Index(rest, "```"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// WeekList unwraps a candidate into a list of raw week entries. Accepts a
// bare array or an object wrapping the array under one of the list keys
// models tend to invent.
func WeekList(candidate any) []any {
	switch v := candidate.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"weeks", "roadmap", "plan", "learning_plan"} {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
	}
	return nil
}

// WeeksFromConversation scans every message of a conversation, newest
// first, for a bare array whose first element carries a "week" key. This
// is the recovery path for the case where speaker attribution and the text
// author disagree; it is used only when the primary extraction from the
// designated terminal message yields nothing.
func WeeksFromConversation(msgs []core.Message) []any {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Content == "" {
			continue
		}
		arr, ok := Candidate(msgs[i].Content).([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		if first, ok := arr[0].(map[string]any); ok {
			if _, hasWeek := first["week"]; hasWeek {
				return arr
			}
		}
	}
	return nil
}
