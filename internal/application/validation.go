package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "meshPath" -> "mesh path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"meshPath":      "mesh path",
		"meshName":      "mesh name",
		"nodeName":      "node name",
		"fbxPath":       "FBX path",
		"outputPath":    "output path",
		"materialsRoot": "materials root",
		"mappingPath":   "mapping path",
		"destination":   "destination",
		"exportRoot":    "export root",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateFileName checks that a value can be used as a bare file name
func ValidateFileName(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not contain path separators, got: %s", formatFieldName(fieldName), value),
		}
	}
	return nil
}
