// Package validation checks request payloads against embedded JSON schemas.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	registerSchema = "schemas/register.schema.json"
	loginSchema    = "schemas/login.schema.json"
)

// Result is the outcome of a validation. Message holds the first problem
// found when OK is false.
type Result struct {
	OK      bool
	Message string
}

type Validator struct {
	register *jsonschema.Schema
	login    *jsonschema.Schema
	printer  *message.Printer
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	for _, name := range []string{registerSchema, loginSchema} {
		raw, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := c.AddResource(name, doc); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
	}

	register, err := c.Compile(registerSchema)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", registerSchema, err)
	}
	login, err := c.Compile(loginSchema)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", loginSchema, err)
	}

	return &Validator{register: register, login: login, printer: message.NewPrinter(language.English)}, nil
}

// MaxPasswordBytes is bcrypt's input limit. The schema counts characters,
// so a multi-byte password can pass maxLength and still be too long.
const MaxPasswordBytes = 72

// ValidateRegistration checks username, email and password.
func (v *Validator) ValidateRegistration(payload any) Result {
	res, doc := v.validate(v.register, payload)
	if !res.OK {
		return res
	}
	if fields, ok := doc.(map[string]any); ok {
		if pw, ok := fields["password"].(string); ok && len(pw) > MaxPasswordBytes {
			return Result{Message: fmt.Sprintf("password: got %d bytes, want at most %d", len(pw), MaxPasswordBytes)}
		}
	}
	return res
}

// ValidateLogin checks username and password.
func (v *Validator) ValidateLogin(payload any) Result {
	res, _ := v.validate(v.login, payload)
	return res
}

// validate round-trips payload through JSON so structs, maps and raw
// messages are all checked in the shape they arrive on the wire.
func (v *Validator) validate(sch *jsonschema.Schema, payload any) (Result, any) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(payload)
		if err != nil {
			return Result{Message: "payload is not valid JSON"}, nil
		}
		raw = b
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Result{Message: "payload is not valid JSON"}, nil
	}

	if err := sch.Validate(doc); err != nil {
		return Result{Message: v.describe(err)}, doc
	}
	return Result{OK: true}, doc
}

func (v *Validator) describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	leaf := firstLeaf(ve)
	return fmt.Sprintf("%s: %s", location(leaf.InstanceLocation), leaf.ErrorKind.LocalizedString(v.printer))
}

func firstLeaf(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return e
}

func location(tokens []string) string {
	if len(tokens) == 0 {
		return "payload"
	}
	return strings.Join(tokens, ".")
}
