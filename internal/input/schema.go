package input

import (
	"fmt"
	"strings"
	"sync"

	apperr "activity-charts/internal/errors"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// flatSchemaJSON describes {"label": value, ...}.
const flatSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {"type": "number"}
}`

// treeSchemaJSON describes {"nodes": [{id, parent_id, name, duration}, ...]}.
// Emptiness and sign checks are left to the tree builder so they surface as
// data errors rather than shape errors.
const treeSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {"$ref": "#/$defs/node"}
    }
  },
  "$defs": {
    "id": {"type": ["string", "integer"]},
    "node": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string"},
        "parent_id": {"anyOf": [{"$ref": "#/$defs/id"}, {"type": "null"}]},
        "duration": {"type": ["number", "null"]}
      }
    }
  }
}`

type schemas struct {
	flat *jsonschema.Schema
	tree *jsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (*schemas, error) {
	flat, err := compile("chartgen://schemas/flat.json", flatSchemaJSON)
	if err != nil {
		return nil, err
	}
	tree, err := compile("chartgen://schemas/tree.json", treeSchemaJSON)
	if err != nil {
		return nil, err
	}
	return &schemas{flat: flat, tree: tree}, nil
})

func compile(url, src string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", url, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return s, nil
}

// validate checks doc against s and converts a failure into a
// MalformedInputError listing each violation.
func validate(s *jsonschema.Schema, doc any, form string) error {
	err := s.Validate(doc)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return apperr.Wrap(apperr.CodeMalformedInput, err, "%s input does not match the expected shape", form)
	}
	violations := collectViolations(verr)
	if len(violations) == 0 {
		return apperr.Malformed("%s input does not match the expected shape: %s", form, verr.Error())
	}
	return apperr.Malformed("%s input does not match the expected shape: %s", form, strings.Join(violations, "; "))
}

// collectViolations walks a ValidationError tree and collects leaf messages
// with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
