package prompts

import (
	"fmt"
	"strings"
)

// missingKeyError reports a placeholder with no matching variable.
type missingKeyError struct {
	key string
}

func (e *missingKeyError) Error() string {
	return fmt.Sprintf("no value for placeholder %q", e.key)
}

// substitute replaces {name} placeholders with values from vars. Doubled
// braces ({{ and }}) produce literal braces. A placeholder without a value
// returns *missingKeyError; unbalanced braces return ErrMalformedTemplate.
func substitute(tmpl string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}

			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			key := tmpl[i+1 : i+1+end]
			if !isPlaceholderName(key) {
				return "", fmt.Errorf("%w: invalid placeholder {%s}", ErrMalformedTemplate, key)
			}

			value, ok := vars[key]
			if !ok {
				return "", &missingKeyError{key: key}
			}
			b.WriteString(value)
			i += end + 2
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), nil
}

func isPlaceholderName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
