// Reflection-based schema descriptors for the persisted record shapes.

package storage

import (
	"fmt"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/maruel/notedb/internal/models"
)

// ColumnType classifies how a record field is stored.
type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeBool   ColumnType = "bool"
	ColumnTypeDate   ColumnType = "date"
	ColumnTypeJSONB  ColumnType = "jsonb"
)

// Column describes one persisted field of a record shape.
type Column struct {
	Name        string     `json:"name"`
	Type        ColumnType `json:"type"`
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Schema describes the persisted record shapes for API consumers.
type Schema struct {
	Note       []Column `json:"note"`
	Doc        []Column `json:"doc"`
	Attachment []Column `json:"attachment"`
}

// RecordSchema reflects the persisted record types into column descriptors.
// Descriptions come from the jsonschema struct tags on the models.
func RecordSchema() (*Schema, error) {
	note, err := columnsFromType[models.NoteRecord]()
	if err != nil {
		return nil, fmt.Errorf("failed to reflect note schema: %w", err)
	}
	doc, err := columnsFromType[models.DocRecord]()
	if err != nil {
		return nil, fmt.Errorf("failed to reflect doc schema: %w", err)
	}
	att, err := columnsFromType[models.Attachment]()
	if err != nil {
		return nil, fmt.Errorf("failed to reflect attachment schema: %w", err)
	}
	return &Schema{Note: note, Doc: doc, Attachment: att}, nil
}

// columnsFromType extracts column definitions using JSON Schema reflection.
//
// It uses github.com/invopop/jsonschema to extract field descriptions from
// `jsonschema:"description=..."` tags and required fields from the schema.
func columnsFromType[T any]() ([]Column, error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type must be a struct, got %s", structType.Kind())
	}

	// Generate JSON Schema from type with inline properties (no $ref).
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.ReflectFromType(structType)

	required := make(map[string]bool)
	for _, name := range schema.Required {
		required[name] = true
	}

	var columns []Column
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		colType := ColumnTypeText
		if fieldType, ok := findFieldType(structType, pair.Key); ok {
			colType = goTypeToColumnType(fieldType)
		}
		columns = append(columns, Column{
			Name:        pair.Key,
			Type:        colType,
			Required:    required[pair.Key],
			Description: pair.Value.Description,
		})
	}
	return columns, nil
}

// findFieldType locates the Go type behind a JSON property name, descending
// into embedded structs since their fields are flattened in the schema.
func findFieldType(structType reflect.Type, jsonName string) (reflect.Type, bool) {
	for i := range structType.NumField() {
		field := structType.Field(i)
		if field.Anonymous {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if t, ok := findFieldType(embedded, jsonName); ok {
					return t, true
				}
			}
			continue
		}
		if jsonFieldName(&field) == jsonName {
			return field.Type, true
		}
	}
	return nil, false
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	// Handle "name,omitempty" format
	for i, c := range tag {
		if c == ',' {
			if i == 0 {
				return field.Name
			}
			return tag[:i]
		}
	}
	return tag
}

// goTypeToColumnType maps Go types to column types.
func goTypeToColumnType(t reflect.Type) ColumnType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeFor[time.Time]() {
		return ColumnTypeDate
	}
	switch t.Kind() {
	case reflect.String:
		return ColumnTypeText
	case reflect.Bool:
		return ColumnTypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ColumnTypeNumber
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		return ColumnTypeJSONB
	default:
		return ColumnTypeText
	}
}
