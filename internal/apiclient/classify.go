package apiclient

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
)

// Classify is the single place where transport failures and backend error
// responses become taxonomy errors. transportErr non-nil means no response
// was received.
func Classify(status int, body []byte, transportErr error) *apperr.Error {
	if transportErr != nil {
		return &apperr.Error{Kind: apperr.KindNetwork, Message: transportErr.Error(), Err: transportErr}
	}

	e := &apperr.Error{Status: status, Message: extractMessage(body)}
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		e.Kind = apperr.KindUnauthorized
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		e.Kind = apperr.KindValidation
	case status == http.StatusNotFound:
		e.Kind = apperr.KindNotFound
	default:
		e.Kind = apperr.KindUnknown
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// extractMessage pulls a human-readable message out of the error shapes
// the backend (and proxies in front of it) are known to produce:
//
//	{"error": "..."}  {"message": "..."}  {"detail": "..."}
//	{"errors": ["...", ...]}  {"errors": [{"message": "..."}]}
//	{"errors": {"field": "..."}}  "plain text"
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		var s string
		if json.Unmarshal(body, &s) == nil {
			return s
		}
		if strings.HasPrefix(trimmed, "<") {
			return "" // HTML error page from a proxy
		}
		return truncate(trimmed)
	}

	for _, key := range []string{"error", "message", "detail", "error_description"} {
		if raw, ok := obj[key]; ok {
			if msg := stringOrMessage(raw); msg != "" {
				return msg
			}
		}
	}
	if raw, ok := obj["errors"]; ok {
		return joinErrors(raw)
	}
	return ""
}

func stringOrMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &nested) == nil {
		return nested.Message
	}
	return ""
}

func joinErrors(raw json.RawMessage) string {
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if m := stringOrMessage(item); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	var fields map[string]string
	if json.Unmarshal(raw, &fields) == nil {
		msgs := make([]string, 0, len(fields))
		for _, k := range sortedKeys(fields) {
			msgs = append(msgs, k+": "+fields[k])
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
