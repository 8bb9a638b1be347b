package service

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const gradeResultSchemaURL = "https://crfpa-grader.local/schemas/grade_result.schema.json"

//go:embed schema/grade_result.schema.json
var gradeResultSchema string

// GradeResultSchema returns the JSON schema the grading instructions describe.
func GradeResultSchema() string {
	return gradeResultSchema
}

// CompileGradeResultSchema compiles the embedded grade result schema.
func CompileGradeResultSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(gradeResultSchemaURL, strings.NewReader(gradeResultSchema)); err != nil {
		return nil, fmt.Errorf("load grade result schema: %w", err)
	}

	schema, err := compiler.Compile(gradeResultSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile grade result schema: %w", err)
	}
	return schema, nil
}
