package recommend

import (
	"strings"

	"github.com/goccy/go-json"
)

// parseAttempt tries one way of reading the model's answer as a JSON object.
type parseAttempt func(raw string) (map[string]any, bool)

// modelOutputParsers run in order; the first success wins.
var modelOutputParsers = []parseAttempt{
	parseObject,
	parseSurroundingFence,
	parseEmbeddedFence,
}

// ParseModelOutput reads the model's answer permissively. It returns the
// decoded object, or nil and false when no attempt succeeds. It never panics.
func ParseModelOutput(raw string) (out map[string]any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = nil, false
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	for _, attempt := range modelOutputParsers {
		if m, ok := attempt(raw); ok {
			return m, true
		}
	}
	return nil, false
}

func parseObject(raw string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &m); err != nil {
		return nil, false
	}
	if m == nil {
		// "null"
		return nil, false
	}
	return m, true
}

// parseSurroundingFence handles answers that are entirely one fenced block,
// with or without a language tag:
//
//	```json
//	{"layout": [...]}
//	```
func parseSurroundingFence(raw string) (map[string]any, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return nil, false
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return parseObject(stripFenceTag(s))
}

// parseEmbeddedFence handles prose around a single fenced block.
func parseEmbeddedFence(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return nil, false
	}
	rest := raw[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return nil, false
	}
	return parseObject(stripFenceTag(rest[:end]))
}

// stripFenceTag drops a leading language tag such as "json", whether it sits
// alone on the fence line or directly before the object.
func stripFenceTag(s string) string {
	trimmed := strings.TrimLeft(s, " \t")

	n := 0
	for n < len(trimmed) && isTagByte(trimmed[n]) {
		n++
	}
	if n > 0 {
		rest := strings.TrimLeft(trimmed[n:], " \t\r")
		if rest == "" || rest[0] == '\n' || rest[0] == '{' || rest[0] == '[' {
			return rest
		}
	}

	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return trimmed
	}
	first := strings.TrimSpace(trimmed[:nl])
	if first == "" || !strings.ContainsAny(first, "{[\"") {
		return trimmed[nl+1:]
	}
	return trimmed
}

func isTagByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_' || b == '-' || b == '+'
}
