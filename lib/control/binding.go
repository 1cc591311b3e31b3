package control

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultModel is the model name used when a binding path has no "model>" prefix.
const DefaultModel = ""

var (
	ErrNotABinding = errors.New("value is not a binding expression")

	simpleBindingPattern = regexp.MustCompile(`^\{\s*(?:([A-Za-z_$][\w$.]*)>)?([^{}=>\s][^{}>]*)\s*\}$`)
	expressionRefPattern = regexp.MustCompile(`\$\{(?:([A-Za-z_$][\w$.]*)>)?([^{}>]+)\}`)
)

// IsBinding reports whether v uses binding syntax instead of being a literal.
// Escaped braces and JSON objects are literals.
func IsBinding(v string) bool {
	s := strings.TrimSpace(v)
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}
	if strings.HasPrefix(s, `{"`) || strings.HasPrefix(s, `{'`) {
		return false
	}
	if strings.HasPrefix(s, "{=") || strings.HasPrefix(s, "{:=") {
		return true
	}
	return simpleBindingPattern.MatchString(s)
}

// Binding is a compiled property binding. Source keeps the original markup
// so the binding can be serialized or reinstalled unchanged.
type Binding struct {
	Source  string
	program *vm.Program
}

// Models holds named data models. The unnamed model uses DefaultModel as key.
type Models map[string]any

func CompileBinding(source string) (*Binding, error) {
	if !IsBinding(source) {
		return nil, fmt.Errorf("%w: %q", ErrNotABinding, source)
	}
	code, err := translateBinding(strings.TrimSpace(source))
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(code, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("error compiling binding %q: %w", source, err)
	}
	return &Binding{Source: source, program: program}, nil
}

func translateBinding(s string) (string, error) {
	if strings.HasPrefix(s, "{=") || strings.HasPrefix(s, "{:=") {
		body := strings.TrimPrefix(s, "{:=")
		body = strings.TrimPrefix(body, "{=")
		body = strings.TrimSuffix(body, "}")
		body = expressionRefPattern.ReplaceAllStringFunc(body, func(ref string) string {
			m := expressionRefPattern.FindStringSubmatch(ref)
			return lookupCall(m[1], m[2])
		})
		if strings.TrimSpace(body) == "" {
			return "", fmt.Errorf("empty expression binding %q", s)
		}
		return body, nil
	}
	m := simpleBindingPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrNotABinding, s)
	}
	return lookupCall(m[1], m[2]), nil
}

func lookupCall(model, path string) string {
	return fmt.Sprintf("lookup(%s, %s)", strconv.Quote(model), strconv.Quote(strings.TrimSpace(path)))
}

// Evaluate resolves the binding against models. Missing paths yield nil.
func (b *Binding) Evaluate(models Models) (any, error) {
	env := map[string]any{
		"lookup": func(model, path string) any {
			return lookupPath(models[model], path)
		},
	}
	return vm.Run(b.program, env)
}

func lookupPath(data any, path string) any {
	current := data
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '.' }) {
		switch node := current.(type) {
		case map[string]any:
			current = node[part]
		case map[string]string:
			v, ok := node[part]
			if !ok {
				return nil
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}
	return current
}
