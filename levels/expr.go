package levels

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"gopkg.in/yaml.v3"
)

// Expr is a coordinate or size. YAML gives it either as a number or as a
// tengo expression over width, height and groundY.
type Expr struct {
	src   string
	value float64
}

// Num returns a constant Expr.
func Num(v float64) Expr {
	return Expr{value: v}
}

// Script returns an Expr evaluated by tengo at layout time.
func Script(src string) Expr {
	if v, err := strconv.ParseFloat(strings.TrimSpace(src), 64); err == nil {
		return Num(v)
	}
	return Expr{src: src}
}

func (e Expr) IsConst() bool {
	return e.src == ""
}

func (e Expr) String() string {
	if e.IsConst() {
		return strconv.FormatFloat(e.value, 'g', -1, 64)
	}
	return e.src
}

func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expression must be a number or a string, got %s", value.Tag)
	}
	*e = Script(value.Value)
	return nil
}

func (e Expr) MarshalYAML() (interface{}, error) {
	if e.IsConst() {
		return e.value, nil
	}
	return e.src, nil
}

// Eval resolves the expression against the viewport.
func (e Expr) Eval(ctx context.Context, vp Viewport) (float64, error) {
	if e.IsConst() {
		return e.value, nil
	}

	src := "__result := " + e.src
	usesMath := strings.Contains(e.src, "math.")
	if usesMath {
		src = "math := import(\"math\")\n" + src
	}

	script := tengo.NewScript([]byte(src))
	_ = script.Add("width", vp.Width)
	_ = script.Add("height", vp.Height)
	_ = script.Add("groundY", vp.GroundY())
	if usesMath {
		script.SetImports(stdlib.GetModuleMap("math"))
	}

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("eval %q: %w", e.src, err)
	}

	switch v := compiled.Get("__result").Value().(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("eval %q: result is %T, want a number", e.src, v)
	}
}
