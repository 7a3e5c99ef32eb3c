// Package schema validates loosely-typed input (config files, imported
// rows) against an embedded CUE schema before it is decoded into Go types.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// Definitions available in the embedded schema.
const (
	Config  = "#Config"
	License = "#License"
)

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every violation found for one value.
type ValidationError struct {
	Definition string  `json:"definition"`
	Issues     []Issue `json:"issues"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}
		parts = append(parts, is.Path+": "+is.Message)
	}
	return fmt.Sprintf("invalid %s: %s", strings.TrimPrefix(e.Definition, "#"), strings.Join(parts, "; "))
}

// Validator holds the compiled schema.
//
// Thread-safety: Validate serializes access to the CUE context.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate checks data against the named definition. data is typically a
// map[string]any produced by a YAML or CSV decoder. Returns a
// *ValidationError describing every violation.
func (v *Validator) Validate(definition string, data any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	def := v.schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("unknown schema definition %q", definition)
	}

	value := v.ctx.Encode(data)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode %s: %w", definition, err)
	}

	err := def.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	verr := &ValidationError{Definition: definition}
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		verr.Issues = append(verr.Issues, Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return verr
}
