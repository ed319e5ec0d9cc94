// Package script runs editing steps, written in YAML, against an editor
// session. Nodes are addressed with query conditions since parsed
// documents receive fresh ids.
//
//	- op: insert
//	  parent: type == "column"
//	  type: button
//	  props:
//	    href: https://example.com
//	  content: Buy now
//	- op: lock
//	  target: type == "section"
//	  locked: true
package script

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/editor"
	"github.com/stateful/mailtree/pkg/document/query"
)

const (
	OpInsert    = "insert"
	OpRemove    = "remove"
	OpMove      = "move"
	OpDuplicate = "duplicate"
	OpProps     = "props"
	OpContent   = "content"
	OpLock      = "lock"
	OpHead      = "head"
	OpPaste     = "paste"
	OpUndo      = "undo"
	OpRedo      = "redo"
)

var ErrNoMatch = errors.New("no node matches")

type Step struct {
	Op      string     `yaml:"op" validate:"required,oneof=insert remove move duplicate props content lock head paste undo redo"`
	Target  string     `yaml:"target" validate:"required_if=Op remove,required_if=Op move,required_if=Op duplicate,required_if=Op props,required_if=Op content,required_if=Op lock"`
	Parent  string     `yaml:"parent" validate:"required_if=Op insert,required_if=Op move,required_if=Op paste"`
	Type    string     `yaml:"type" validate:"required_if=Op insert"`
	Index   *int       `yaml:"index"`
	Props   yaml.Node  `yaml:"props"`
	Content *string    `yaml:"content"`
	Locked  *bool      `yaml:"locked"`
	Markup  string     `yaml:"markup" validate:"required_if=Op paste"`
	Head    *HeadPatch `yaml:"head" validate:"required_if=Op head"`
}

type HeadPatch struct {
	Title      *string `yaml:"title"`
	Preview    *string `yaml:"preview"`
	CSS        *string `yaml:"css"`
	Breakpoint *string `yaml:"breakpoint"`
}

var validate = validator.New()

// Parse decodes and validates a script.
func Parse(data []byte) ([]Step, error) {
	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal script")
	}
	for i := range steps {
		if err := validate.Struct(&steps[i]); err != nil {
			return nil, errors.Wrapf(err, "invalid step %d", i+1)
		}
		if steps[i].Props.Kind != 0 && steps[i].Props.Kind != yaml.MappingNode {
			return nil, errors.Errorf("invalid step %d: props must be a mapping", i+1)
		}
	}
	return steps, nil
}

// Result reports what a step did. Changed is false for steps the engine
// treated as no-ops.
type Result struct {
	Step    int
	Op      string
	Changed bool
}

type Runner struct {
	session *editor.Session
	logger  *zap.Logger
}

func NewRunner(session *editor.Session, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{session: session, logger: logger}
}

// Run applies the steps in order. It stops at the first step whose selector
// is invalid or matches nothing.
func (r *Runner) Run(steps []Step) ([]Result, error) {
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		changed, err := r.apply(step)
		if err != nil {
			return results, errors.WithMessagef(err, "step %d (%s)", i+1, step.Op)
		}
		if !changed {
			r.logger.Info("step changed nothing", zap.Int("step", i+1), zap.String("op", step.Op))
		}
		results = append(results, Result{Step: i + 1, Op: step.Op, Changed: changed})
	}
	return results, nil
}

func (r *Runner) find(condition string) (*document.Node, error) {
	f, err := query.Compile(condition)
	if err != nil {
		return nil, err
	}
	matches, err := query.Select(r.session.Root(), f)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoMatch, "%q", condition)
	}
	return matches[0].Node, nil
}

func index(step Step) int {
	if step.Index == nil {
		return editor.Append
	}
	return *step.Index
}

func (r *Runner) apply(step Step) (bool, error) {
	s := r.session

	switch step.Op {
	case OpUndo:
		return s.Undo(), nil
	case OpRedo:
		return s.Redo(), nil
	case OpHead:
		return s.UpdateHead(func(head *document.Head) {
			p := step.Head
			if p.Title != nil {
				head.Title = *p.Title
			}
			if p.Preview != nil {
				head.Preview = *p.Preview
			}
			if p.CSS != nil {
				head.CSS = *p.CSS
			}
			if p.Breakpoint != nil {
				head.Breakpoint = *p.Breakpoint
			}
		}), nil
	}

	var parent, target *document.Node
	if step.Parent != "" {
		var err error
		if parent, err = r.find(step.Parent); err != nil {
			return false, err
		}
	}
	if step.Target != "" {
		var err error
		if target, err = r.find(step.Target); err != nil {
			return false, err
		}
	}

	switch step.Op {
	case OpInsert:
		node, err := s.CreateNode(step.Type)
		if err != nil {
			return false, err
		}
		props, err := decodeProps(&step.Props)
		if err != nil {
			return false, err
		}
		node.Props.Patch(props)
		if step.Content != nil {
			node.Content = *step.Content
		}
		return s.InsertChild(parent.ID, node, index(step)), nil
	case OpRemove:
		return s.RemoveNode(target.ID), nil
	case OpMove:
		return s.MoveNode(target.ID, parent.ID, index(step)), nil
	case OpDuplicate:
		return s.DuplicateNode(target.ID) != nil, nil
	case OpProps:
		props, err := decodeProps(&step.Props)
		if err != nil {
			return false, err
		}
		return s.UpdateProps(target.ID, props), nil
	case OpContent:
		content := ""
		if step.Content != nil {
			content = *step.Content
		}
		return s.UpdateContent(target.ID, content), nil
	case OpLock:
		locked := true
		if step.Locked != nil {
			locked = *step.Locked
		}
		return s.SetLocked(target.ID, locked), nil
	case OpPaste:
		nodes, err := s.PasteMarkup(parent.ID, step.Markup, index(step))
		return len(nodes) > 0, err
	}

	return false, errors.Errorf("unknown op %q", step.Op)
}

// decodeProps keeps the order of the YAML mapping. Integers and floats stay
// numeric, null removes the key.
func decodeProps(n *yaml.Node) (*document.Props, error) {
	props := document.NewProps()
	if n.Kind == 0 {
		return props, nil
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, errors.Errorf("prop %q: expected a scalar", key)
		}

		switch value.Tag {
		case "!!null":
			props.Set(key, nil)
		case "!!int":
			v, err := strconv.Atoi(value.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "prop %q", key)
			}
			props.Set(key, v)
		case "!!float":
			v, err := strconv.ParseFloat(value.Value, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "prop %q", key)
			}
			props.Set(key, v)
		default:
			props.Set(key, value.Value)
		}
	}
	return props, nil
}
