package apierr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Classify maps a failed exchange to exactly one error kind. status is 0
// when no response was received; body is the value returned by ParseBody.
func Classify(status int, body any) *Error {
	switch status {
	case 0:
		return Network(nil)
	case http.StatusBadRequest:
		fields := fieldMap(body)
		return &Error{
			Kind:       KindValidation,
			StatusCode: status,
			Message:    message(body, UnknownErrorMessage),
			Fields:     fields,
		}
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, StatusCode: status, Message: message(body, UnknownErrorMessage)}
	case http.StatusForbidden:
		return &Error{Kind: KindPermission, StatusCode: status, Message: message(body, UnknownErrorMessage)}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, Message: message(body, UnknownErrorMessage)}
	default:
		fallback := fmt.Sprintf("request failed with status %d", status)
		return &Error{Kind: KindGeneric, StatusCode: status, Message: message(body, fallback)}
	}
}

// ParseBody decodes a response body for classification. An empty body yields
// nil, JSON yields the decoded value and anything else the trimmed text.
func ParseBody(data []byte) any {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		return v
	}
	return string(data)
}

// message derives the human-readable text of a body.
func message(body any, fallback string) string {
	switch b := body.(type) {
	case string:
		if b != "" {
			return b
		}
	case map[string]any:
		if detail, ok := b["detail"]; ok {
			if s := stringify(detail); s != "" {
				return s
			}
			return fallback
		}
		fields := fieldMap(b)
		if len(fields) == 0 {
			return fallback
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, k+": "+strings.Join(fields[k], ", "))
		}
		return strings.Join(lines, "\n")
	}
	return fallback
}

// fieldMap returns the field -> messages payload of a body that is a JSON
// object without a "detail" key, or nil.
func fieldMap(body any) map[string][]string {
	m, ok := body.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	if _, ok := m["detail"]; ok {
		return nil
	}
	fields := make(map[string][]string, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case []any:
			msgs := make([]string, 0, len(vv))
			for _, item := range vv {
				msgs = append(msgs, stringify(item))
			}
			fields[k] = msgs
		default:
			fields[k] = []string{stringify(vv)}
		}
	}
	return fields
}

func stringify(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case map[string]any, []any:
		b, err := json.Marshal(vv)
		if err != nil {
			return fmt.Sprint(vv)
		}
		return string(b)
	default:
		return fmt.Sprint(vv)
	}
}
