package generator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const problemSchemaURL = "schema://generated_problem.json"

// problemSchemaJSON is the structural shape expected from the model.
// final_answer may arrive as a number or a numeric string; coercion happens
// after validation.
const problemSchemaJSON = `{
  "type": "object",
  "required": ["problem_text", "final_answer"],
  "properties": {
    "problem_text": {"type": "string", "minLength": 1},
    "final_answer": {"type": ["number", "string"]},
    "hint": {"type": ["string", "null"]},
    "solution_steps": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    }
  }
}`

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// problemValidator compiles the schema on first use and caches it.
func problemValidator() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(problemSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(problemSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(problemSchemaURL)
	})
	return compiledSchema, compileErr
}
