// Package query selects document nodes with expr-lang conditions, e.g.
//
//	type == "text" && locked
//	props["href"] startsWith "http://"
//	depth <= 2 && children == 0
package query

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/stateful/mailtree/pkg/document"
)

// Env is the environment a condition is evaluated against.
//
// The `expr` tag is used to map the field to the corresponding variable.
// Without it, all variables start with capitalized letters.
type Env struct {
	ID         string            `expr:"id"`
	Type       string            `expr:"type"`
	Content    string            `expr:"content"`
	Props      map[string]string `expr:"props"`
	Locked     bool              `expr:"locked"`
	SelfLocked bool              `expr:"self_locked"`
	Depth      int               `expr:"depth"`
	Children   int               `expr:"children"`
	Parent     string            `expr:"parent"`
}

type Filter struct {
	Condition string
	program   *vm.Program
}

// Compile checks the condition against Env and requires a boolean result.
func Compile(condition string) (*Filter, error) {
	program, err := expr.Compile(
		condition,
		expr.Env(Env{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile filter program")
	}
	return &Filter{Condition: condition, program: program}, nil
}

func (f *Filter) Match(env Env) (bool, error) {
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, errors.Wrap(err, "failed to run filter program")
	}
	return result.(bool), nil
}

// Match is the match result for one node.
type Match struct {
	Node *document.Node
	Env  Env
}

// Select returns the nodes of the tree matching the filter in depth-first
// order.
func Select(root *document.Node, f *Filter) ([]Match, error) {
	var (
		result []Match
		err    error
	)

	var visit func(n *document.Node, parent string, depth int, locked bool)
	visit = func(n *document.Node, parent string, depth int, locked bool) {
		if err != nil {
			return
		}
		locked = locked || n.Locked
		env := NewEnv(n, parent, depth, locked)

		var ok bool
		ok, err = f.Match(env)
		if err != nil {
			err = errors.WithMessagef(err, "node %s", n.ID)
			return
		}
		if ok {
			result = append(result, Match{Node: n, Env: env})
		}
		for _, child := range n.Children {
			visit(child, n.Type, depth+1, locked)
		}
	}
	if root != nil {
		visit(root, "", 0, false)
	}

	return result, err
}

// NewEnv builds the environment of a node. locked is the effective lock
// state including the ancestors.
func NewEnv(n *document.Node, parent string, depth int, locked bool) Env {
	props := make(map[string]string, n.Props.Len())
	n.Props.Each(func(key string, value any) {
		props[key] = document.FormatValue(value)
	})

	return Env{
		ID:         n.ID,
		Type:       n.Type,
		Content:    n.Content,
		Props:      props,
		Locked:     locked,
		SelfLocked: n.Locked,
		Depth:      depth,
		Children:   len(n.Children),
		Parent:     parent,
	}
}
