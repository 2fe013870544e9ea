package harness

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var schemaCUE string

// SchemaError reports a scenario file that does not match the schema.
type SchemaError struct {
	Path     string
	Messages []string // one per CUE error, with positions
}

func (e *SchemaError) Error() string {
	if len(e.Messages) == 1 {
		return fmt.Sprintf("%s: %s", e.Path, e.Messages[0])
	}
	return fmt.Sprintf("%s: %d schema errors, first: %s", e.Path, len(e.Messages), e.Messages[0])
}

// CheckShape validates YAML scenario data against the embedded schema.
func CheckShape(path string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return &SchemaError{Path: path, Messages: []string{err.Error()}}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &SchemaError{Path: path, Messages: messages(err)}
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Path: path, Messages: messages(err)}
	}
	return nil
}

func messages(err error) []string {
	var out []string
	for _, e := range cueerrors.Errors(err) {
		out = append(out, cueerrors.Details(e, nil))
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}
