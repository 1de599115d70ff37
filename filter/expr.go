// Package filter selects account tree nodes with expr-lang expressions such as
//
//	Type == "expense" and RecursiveBalance > 1000
//	icontains(Name, "cash") or Depth == 0
//	lower(Name) startsWith "petty"
//
// contains, startsWith and endsWith are expr operators and match case
// sensitively; icontains, istartsWith and iendsWith ignore case.
package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"

	"github.com/s0up4200/amatino/amatino"
)

// Filter decides whether a tree node is selected.
type Filter interface {
	Match(node amatino.TreeNode) (bool, error)
	Expression() string
}

// Compiler turns an expression into a Filter.
type Compiler interface {
	Compile(expression string) (Filter, error)
}

// CompilerOption configures an expr compiler
type CompilerOption func(*exprCompiler)

// WithCache keeps up to size compiled filters.
func WithCache(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[*exprFilter](size)
		}
	}
}

// WithCustomFunctions adds helper functions callable from expressions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// NewCompiler returns an expr based Compiler.
func NewCompiler(opts ...CompilerOption) Compiler {
	c := &exprCompiler{helpers: helperFunctions()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is shorthand for NewCompiler().Compile(expression).
func Compile(expression string) (Filter, error) {
	return NewCompiler().Compile(expression)
}

type exprCompiler struct {
	helpers map[string]any
	cache   *lruCache[*exprFilter]
}

type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

func (c *exprCompiler) Compile(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression", Position: -1}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	env := nodeEnvironment(amatino.TreeNode{}, c.helpers)
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
	}

	f := &exprFilter{expression: expression, program: program, helpers: c.helpers}
	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

func (f *exprFilter) Match(node amatino.TreeNode) (bool, error) {
	result, err := expr.Run(f.program, nodeEnvironment(node, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			AccountID:  node.AccountID,
			Name:       node.Name,
			Reason:     "expression failed",
			Err:        err,
		}
	}
	return result.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// helperFunctions are the case-insensitive string helpers. lower, upper and
// abs come with expr.
func helperFunctions() map[string]any {
	return map[string]any{
		"icontains": func(s, substr string) bool {
			return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
		},
		"istartsWith": func(s, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
		},
		"iendsWith": func(s, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
		},
	}
}

// nodeEnvironment exposes node to an expression. Unreadable balances are 0
// and Readable is false.
func nodeEnvironment(node amatino.TreeNode, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+10)
	maps.Copy(env, helpers)

	env["AccountID"] = node.AccountID
	env["Name"] = node.Name
	env["Type"] = node.Type.String()
	env["Depth"] = node.Depth
	env["Balance"] = toFloat(node.AccountBalance)
	env["RecursiveBalance"] = toFloat(node.RecursiveBalance)
	env["Readable"] = node.Readable()
	env["HasChildren"] = node.HasChildren()
	env["ChildCount"] = len(node.Children)
	env["isType"] = func(name string) bool {
		return strings.EqualFold(node.Type.String(), strings.TrimSpace(name))
	}
	return env
}

func toFloat(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
