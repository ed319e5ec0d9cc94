// Package compiler turns document markup into deliverable HTML.
package compiler

import (
	"context"
)

// Error types reported in Result.Errors.
const (
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
	ErrorTypeMinify     = "minify"
)

// Error is a soft compilation problem. Compilation goes on where possible.
type Error struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

type Result struct {
	HTML   string  `json:"html"`
	Text   string  `json:"text,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

func (r *Result) addError(typ, msg string) {
	r.Errors = append(r.Errors, Error{Type: typ, Message: msg})
}

// Compiler converts markup into HTML. Problems with the markup itself are
// reported in Result.Errors; the returned error is reserved for failures
// of the compilation, such as a cancelled context.
type Compiler interface {
	Compile(ctx context.Context, markup string) (*Result, error)
}
