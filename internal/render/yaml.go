package render

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// scalar returns s as a YAML flow scalar. Plain style is used when the YAML
// parser reads the text back as the same string; anything else (numbers,
// booleans, leading indicators, ": " sequences) is double-quoted.
func scalar(s string) string {
	if s != "" && strings.TrimSpace(s) == s && !strings.ContainsAny(s, "\n\t") {
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err == nil {
			if str, ok := v.(string); ok && str == s {
				return s
			}
		}
	}
	return strconv.Quote(s)
}

// yamlWriter accumulates indented YAML lines.
type yamlWriter struct {
	b strings.Builder
}

func (w *yamlWriter) line(indent int, format string, args ...any) {
	w.b.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *yamlWriter) blank() {
	w.b.WriteByte('\n')
}

func (w *yamlWriter) comment(text string) {
	w.b.WriteString("# " + text + "\n")
}

func (w *yamlWriter) String() string {
	return w.b.String()
}
