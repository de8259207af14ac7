// Package schemas embeds the structured-output JSON Schemas and
// validates model responses against them. Validation happens once, at
// the model-call boundary; downstream code trusts the parsed structs.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume_content.json
var resumeContentSchema string

//go:embed cover_letter_content.json
var coverLetterContentSchema string

// ResumeContentSchema returns the raw JSON Schema for resume content,
// suitable for passing to backends that accept schema-constrained
// decoding.
func ResumeContentSchema() string { return resumeContentSchema }

// CoverLetterContentSchema returns the raw JSON Schema for cover letter
// content.
func CoverLetterContentSchema() string { return coverLetterContentSchema }

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself.
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateResumeContent validates a JSON document against the resume
// content schema.
func ValidateResumeContent(jsonContent string) error {
	return validateAgainst("resume_content", resumeContentSchema, jsonContent)
}

// ValidateCoverLetterContent validates a JSON document against the cover
// letter content schema.
func ValidateCoverLetterContent(jsonContent string) error {
	return validateAgainst("cover_letter_content", coverLetterContentSchema, jsonContent)
}

func validateAgainst(name, schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Schema:  name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
