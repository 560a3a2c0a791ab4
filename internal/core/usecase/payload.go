package usecase

import "strconv"

// firstMissing returns the first field of the ordered required list that is
// absent from the payload, or "" when all are present.
func firstMissing(payload map[string]any, required []string) string {
	for _, field := range required {
		if _, ok := payload[field]; !ok {
			return field
		}
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// asInt accepts the numeric shapes a decoded JSON payload can carry.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func asStrings(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func asFloats(v any) []float64 {
	switch vs := v.(type) {
	case []float64:
		return vs
	case []any:
		out := make([]float64, 0, len(vs))
		for _, e := range vs {
			if f, ok := e.(float64); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}
