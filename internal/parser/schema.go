// Package parser validates and decodes the JSON payloads returned by the
// users and tasks endpoints
package parser

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// PayloadKind identifies which fixed schema a payload is checked against
type PayloadKind int

const (
	UserList PayloadKind = iota
	TaskList
)

// String returns the string representation of PayloadKind
func (k PayloadKind) String() string {
	switch k {
	case UserList:
		return "UserList"
	case TaskList:
		return "TaskList"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// schemaFile returns the embedded schema document for the kind
func (k PayloadKind) schemaFile() string {
	switch k {
	case UserList:
		return "schemas/users.json"
	case TaskList:
		return "schemas/tasks.json"
	default:
		return ""
	}
}

// ValidationError reports the first schema violation found in a payload
type ValidationError struct {
	Kind    PayloadKind
	Path    string // JSON path of the offending value, "" for the document root
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("invalid %s at %s: %s", e.Kind, e.Path, e.Message)
}

var (
	compileOnce sync.Once
	compiled    map[PayloadKind]*jsonschema.Schema
	compileErr  error
)

// compileSchemas compiles the embedded schemas exactly once
func compileSchemas() (map[PayloadKind]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		schemas := make(map[PayloadKind]*jsonschema.Schema)

		for _, kind := range []PayloadKind{UserList, TaskList} {
			data, err := schemaFS.ReadFile(kind.schemaFile())
			if err != nil {
				compileErr = fmt.Errorf("read %s schema: %w", kind, err)
				return
			}

			url := "mem://task-reports/" + kind.schemaFile()
			if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add %s schema: %w", kind, err)
				return
			}

			schema, err := compiler.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", kind, err)
				return
			}
			schemas[kind] = schema
		}

		compiled = schemas
	})
	return compiled, compileErr
}

// Validate checks a raw JSON payload against the schema of the given kind
// Malformed JSON is reported as a ValidationError at the document root
func Validate(raw []byte, kind PayloadKind) error {
	schemas, err := compileSchemas()
	if err != nil {
		return err
	}

	schema, ok := schemas[kind]
	if !ok {
		return fmt.Errorf("unknown payload kind %s", kind)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return &ValidationError{Kind: kind, Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	if err := schema.Validate(doc); err != nil {
		return toValidationError(kind, err)
	}

	return nil
}

// decodeDocument decodes a single JSON value keeping numbers exact
func decodeDocument(raw []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return doc, nil
}

// ValidateUsers checks a payload against the UserList schema
func ValidateUsers(raw []byte) error {
	return Validate(raw, UserList)
}

// ValidateTasks checks a payload against the TaskList schema
func ValidateTasks(raw []byte) error {
	return Validate(raw, TaskList)
}

// toValidationError converts the deepest first cause of a jsonschema error
func toValidationError(kind PayloadKind, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Kind: kind, Message: err.Error()}
	}

	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	return &ValidationError{
		Kind:    kind,
		Path:    pointerToPath(ve.InstanceLocation),
		Message: ve.Message,
	}
}

// pointerToPath turns "/0/address/geo" into "[0].address.geo"
func pointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}

	var b strings.Builder
	for _, token := range strings.Split(pointer, "/") {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		if isIndex(token) {
			fmt.Fprintf(&b, "[%s]", token)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func isIndex(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
