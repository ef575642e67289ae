package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a model response contains no JSON value at all.
var ErrNoJSON = errors.New("no JSON found in response")

// Repairs for syntax mistakes models commonly make. They only cover simple
// keys and values; nested quoting is left to the decoder to reject.
var (
	trailingCommaRegex    = regexp.MustCompile(`,\s*([}\]])`)
	singleQuoteKeyRegex   = regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`)
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)
	missingCommaRegex     = regexp.MustCompile(`([}"])\s*\n\s*([{"])`)
)

// ExtractAndParseJSON pulls the first JSON object or array out of a model
// response and decodes it into T. Markdown fences, leading prose and trailing
// text are ignored; if strict decoding fails a repaired copy is tried once.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := stripFences(response)
	if cleaned == "" {
		return result, ErrNoJSON
	}

	// A JSON document smuggled inside a JSON string.
	if strings.HasPrefix(cleaned, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(cleaned), &inner); err == nil {
			return ExtractAndParseJSON[T](inner)
		}
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("%w: no object or array start", ErrNoJSON)
	}

	body := cleaned[idx:]
	err := json.NewDecoder(strings.NewReader(body)).Decode(&result)
	if err == nil {
		return result, nil
	}

	if repaired := repairJSON(body); repaired != body {
		var retry T
		if err2 := json.NewDecoder(strings.NewReader(repaired)).Decode(&retry); err2 == nil {
			return retry, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("parse JSON: %w", err)
}

// ExtractAndValidate is ExtractAndParseJSON followed by check on the decoded value.
func ExtractAndValidate[T any](response string, check func(T) error) (T, error) {
	result, err := ExtractAndParseJSON[T](response)
	if err != nil {
		return result, err
	}
	if check != nil {
		if err := check(result); err != nil {
			var zero T
			return zero, fmt.Errorf("validate JSON: %w", err)
		}
	}
	return result, nil
}

func repairJSON(input string) string {
	out := escapeControlChars(input)
	out = missingCommaRegex.ReplaceAllString(out, `$1,$2`)
	out = trailingCommaRegex.ReplaceAllString(out, `$1`)
	out = singleQuoteKeyRegex.ReplaceAllString(out, `$1"$2"$3`)
	out = singleQuoteValueRegex.ReplaceAllStringFunc(out, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})
	return out
}

// escapeControlChars escapes raw newlines and tabs that appear inside string literals.
func escapeControlChars(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c < 0x20:
			switch c {
			case '\n':
				b.WriteString(`\n`)
			case '\t':
				b.WriteString(`\t`)
			case '\r':
				b.WriteString(`\r`)
			default:
				fmt.Fprintf(&b, `\u%04x`, c)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func stripFences(response string) string {
	s := strings.TrimSpace(response)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// Drop the language tag line, if any.
		if nl := strings.IndexByte(rest, '\n'); nl != -1 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		}
		s = rest
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
