package treasure

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
)

// maxEvalDepth bounds define-to-define expansion so cyclic defines fail
// instead of recursing forever.
const maxEvalDepth = 16

var (
	definePattern     = regexp.MustCompile(`^\s*\.(?i:define|def)\s+([A-Za-z_]\w*)\s+(.+?)\s*(;.*)?$`)
	hexLiteralPattern = regexp.MustCompile(`\$([0-9A-Fa-f]+)`)
	identPattern      = regexp.MustCompile(`\b[A-Za-z_]\w*\b`)
)

// parseDefine extracts the name and value of a ".define NAME VALUE" line.
func parseDefine(line string) (name, value string, ok bool) {
	m := definePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Eval evaluates a field value such as "$ff", "TREASURE_SWORD" or
// "SPAWN_FALL+$02" to an integer. "$" introduces a hex literal and any
// define from an attached document can be used by name.
func (p *Project) Eval(value string) (int, error) {
	return p.eval(value, 0)
}

func (p *Project) eval(value string, depth int) (int, error) {
	if depth > maxEvalDepth {
		return 0, fmt.Errorf("%q: define nesting too deep: %w", value, ErrEvaluation)
	}
	src := strings.TrimSpace(hexLiteralPattern.ReplaceAllString(value, "0x$1"))
	if src == "" {
		return 0, fmt.Errorf("empty value: %w", ErrEvaluation)
	}

	env := map[string]any{}
	for _, ident := range identPattern.FindAllString(src, -1) {
		if _, done := env[ident]; done {
			continue
		}
		n, ok := p.defines[ident]
		if !ok {
			continue
		}
		_, body, _ := parseDefine(n.text)
		v, err := p.eval(body, depth+1)
		if err != nil {
			return 0, fmt.Errorf("define %s: %w", ident, err)
		}
		env[ident] = v
	}

	out, err := expr.Eval(src, env)
	if err != nil {
		return 0, fmt.Errorf("%q: %v: %w", value, err, ErrEvaluation)
	}
	switch v := out.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%q evaluated to %v (%T): %w", value, out, out, ErrEvaluation)
}
