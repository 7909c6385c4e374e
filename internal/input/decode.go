// Package input decodes chart payloads. Two forms are accepted:
//
//	{"Work": 30, "Sleep": 70}                                  // flat
//	{"nodes": [{"id": 1, "parent_id": null, "name": "Work"}]}  // tree
//
// Both are validated against an embedded JSON Schema before being decoded
// into typed records, and both keep the order in which entries appear.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"activity-charts/internal/activity"
	apperr "activity-charts/internal/errors"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Kind is the detected input form.
type Kind string

const (
	KindAuto Kind = ""
	KindFlat Kind = "flat"
	KindTree Kind = "tree"
)

// Entry is one label/value pair of the flat form.
type Entry struct {
	Label string
	Value float64
}

// Document is a decoded payload. Records is populated for both forms; flat
// entries become childless roots whose id and name are the label.
type Document struct {
	Kind    Kind
	Entries []Entry
	Records []activity.Record
}

// Decode detects the form of data and decodes it.
func Decode(data []byte) (*Document, error) {
	return DecodeAs(data, KindAuto)
}

// DecodeAs decodes data as the given form. KindAuto picks the tree form
// when the top-level object has a "nodes" key and the flat form otherwise.
func DecodeAs(data []byte, kind Kind) (*Document, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, fmt.Errorf("load input schemas: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "input is not valid JSON")
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, apperr.Malformed("input must be a JSON object, got %s", describe(doc))
	}

	if kind == KindAuto {
		kind = KindFlat
		if _, ok := obj["nodes"]; ok {
			kind = KindTree
		}
	}

	switch kind {
	case KindTree:
		if _, ok := obj["nodes"]; !ok {
			return nil, apperr.Malformed(`tree input is missing required key "nodes"`)
		}
		if err := validate(schemas.tree, doc, "tree"); err != nil {
			return nil, err
		}
		return decodeTree(data)
	case KindFlat:
		if err := validate(schemas.flat, doc, "flat"); err != nil {
			return nil, err
		}
		return decodeFlat(data)
	default:
		return nil, fmt.Errorf("unknown input kind %q", kind)
	}
}

type rawNode struct {
	ID       json.RawMessage `json:"id"`
	ParentID json.RawMessage `json:"parent_id"`
	Name     string          `json:"name"`
	Duration *float64        `json:"duration"`
}

type rawTree struct {
	Nodes []rawNode `json:"nodes"`
}

func decodeTree(data []byte) (*Document, error) {
	var raw rawTree
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "decode nodes")
	}

	records := make([]activity.Record, 0, len(raw.Nodes))
	for i, n := range raw.Nodes {
		id, err := parseID(n.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "nodes[%d].id", i)
		}
		r := activity.Record{ID: id, Name: n.Name, Duration: n.Duration}
		if len(n.ParentID) > 0 && string(n.ParentID) != "null" {
			parent, err := parseID(n.ParentID)
			if err != nil {
				return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "nodes[%d].parent_id", i)
			}
			r.ParentID = &parent
		}
		records = append(records, r)
	}
	return &Document{Kind: KindTree, Records: records}, nil
}

// decodeFlat walks the object token by token; a map would lose key order.
func decodeFlat(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "decode flat input")
	}

	doc := &Document{Kind: KindFlat}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "decode flat input")
		}
		label, ok := tok.(string)
		if !ok {
			return nil, apperr.Malformed("unexpected token %v in flat input", tok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return nil, apperr.Wrap(apperr.CodeMalformedInput, err, "value for %q", label)
		}
		if value < 0 {
			return nil, apperr.InvalidData("value for %q is negative: %v", label, value)
		}
		doc.Entries = append(doc.Entries, Entry{Label: label, Value: value})
	}

	doc.Records = make([]activity.Record, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		v := e.Value
		doc.Records = append(doc.Records, activity.Record{
			ID:       activity.NodeID(e.Label),
			Name:     e.Label,
			Duration: &v,
		})
	}
	return doc, nil
}

// parseID folds a JSON string or integer into a NodeID. Integers written
// with a fraction or exponent (1.0, 1e2) are normalised to decimal form.
func parseID(raw json.RawMessage) (activity.NodeID, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("id must not be empty")
		}
		return activity.NodeID(s), nil
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return "", fmt.Errorf("id must be a string or integer: %w", err)
	}
	text := num.String()
	if !strings.ContainsAny(text, ".eE") {
		return activity.NodeID(text), nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return "", fmt.Errorf("id %s is not an integer", text)
	}
	return activity.NodeID(strconv.FormatInt(int64(f), 10)), nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
