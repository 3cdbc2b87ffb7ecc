package repository

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/fixturepick/internal/domain/model"
)

const schemaURL = "catalog.schema.json"

//go:embed data/catalog.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Decode validates raw against the catalog schema and decodes it.
// Every failure is a *FormatError naming source.
func Decode(source string, raw []byte) (model.Catalog, error) {
	sch, err := compiledSchema()
	if err != nil {
		return model.Catalog{}, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return model.Catalog{}, &FormatError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := sch.Validate(doc); err != nil {
		return model.Catalog{}, schemaError(source, err)
	}

	var c model.Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.Catalog{}, &FormatError{Source: source, Err: err}
	}
	return c, nil
}

// schemaError reduces a validation tree to its first leaf so the message
// points at one concrete location.
func schemaError(source string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &FormatError{Source: source, Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := "/" + strings.Join(leaf.InstanceLocation, "/")
	return &FormatError{Source: source, Location: loc, Err: errors.New(leaf.Error())}
}
