// Package arrayfield normalizes the encodings a string-list column has been
// written with over time (native arrays, JSON arrays, Postgres array
// literals and bare strings) into a plain ordered []string.
//
// Decoding never fails: malformed input degrades to a best-effort comma
// split or to an empty list. Encoding always produces the JSON array form,
// so rows converge on one representation as they are rewritten.
package arrayfield

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Decode converts raw into an ordered list of non-empty strings.
func Decode(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return DecodeString(v)
	case *string:
		if v == nil {
			return []string{}
		}
		return DecodeString(*v)
	case []byte:
		return DecodeString(string(v))
	case json.RawMessage:
		return DecodeString(string(v))
	case sql.NullString:
		if !v.Valid {
			return []string{}
		}
		return DecodeString(v.String)
	case []string:
		return compact(v)
	case pq.StringArray:
		return compact(v)
	case List:
		return compact(v)
	case []any:
		return fromValues(v)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return fromValues(values)
	case reflect.Pointer:
		if rv.IsNil() {
			return []string{}
		}
		return Decode(rv.Elem().Interface())
	}
	return DecodeString(fmt.Sprint(raw))
}

// DecodeString decodes the textual encodings of a list.
func DecodeString(s string) []string {
	s = strings.TrimSpace(s)
	switch {
	case s == "", s == "{}", s == "[]":
		return []string{}
	case strings.HasPrefix(s, "["):
		var values []any
		if err := json.Unmarshal([]byte(s), &values); err == nil {
			return fromValues(values)
		}
		// broken JSON: only the outer brackets belong to the encoding
		return splitLoose(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	case wrapped(s, '{', '}'):
		return splitArrayLiteral(s[1 : len(s)-1])
	default:
		return splitLoose(s)
	}
}

// Encode renders list in the JSON array form used for storage. Invalid
// UTF-8 is replaced with U+FFFD, so only valid UTF-8 lists round-trip.
func Encode(list []string) string {
	if list == nil {
		list = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func wrapped(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

// splitArrayLiteral splits the body of a Postgres array literal. Commas
// inside double-quoted elements do not split, and backslash escapes are
// honoured, so {"a","b,c"} yields two elements.
func splitArrayLiteral(body string) []string {
	out := []string{}
	for _, token := range splitTokens(body) {
		token = strings.TrimSpace(token)
		quoted := len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"'
		if quoted {
			token = token[1 : len(token)-1]
		}
		token = unescape(token)
		if !quoted {
			token = strings.TrimSpace(token)
			if strings.EqualFold(token, "NULL") {
				continue
			}
		}
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

func splitTokens(body string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			current.WriteByte(c)
			current.WriteByte(body[i+1])
			i++
		case c == '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == ',' && !inQuotes:
			tokens = append(tokens, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(tokens, current.String())
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitLoose is the fallback for bare strings and unparseable input: stray
// quotes and braces are dropped and the rest is split on commas. Brackets
// are kept since URLs may contain them.
func splitLoose(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '"', '{', '}':
			return -1
		}
		return r
	}, s)

	out := []string{}
	for _, part := range strings.Split(cleaned, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fromValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := coerce(v); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerce(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return fmt.Sprint(v), true
	}
}
