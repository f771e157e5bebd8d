package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseEvaluation decodes the JSON-mode reply of the resume evaluation
// prompt. A reply carrying an "error" key is a provider failure, not data.
func parseEvaluation(raw string) (*Evaluation, error) {
	jsonStr := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: null evaluation", ErrMalformedResponse)
	}

	if errVal, ok := data["error"]; ok && errVal != nil && errVal != false {
		if msg := coerceString(errVal); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
		}
	}

	evaluation := &Evaluation{
		MissingSkills: coerceStrings(data["missing_skills"]),
		Remarks:       coerceString(data["remarks"]),
	}

	if rawScore, ok := data["score"]; ok && rawScore != nil {
		score, ok := coerceScore(rawScore)
		if !ok {
			return nil, fmt.Errorf("%w: score %v is not a number", ErrMalformedResponse, rawScore)
		}
		evaluation.Score = &score
	}

	return evaluation, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func coerceScore(v any) (int, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(val), "%"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, item := range strings.Split(val, ",") {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
