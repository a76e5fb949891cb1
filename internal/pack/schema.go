package pack

import (
	"reflect"
	"strings"
)

// ValueType is the type of a schema property
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeObject  ValueType = "object"
)

// ValueHint tells the host how to display a property
type ValueHint string

const ValueHintPercent ValueHint = "percent"

// Property describes one field of a result schema
type Property struct {
	Name     string    `json:"name"`
	Type     ValueType `json:"type"`
	Hint     ValueHint `json:"hint,omitempty"`
	Required bool      `json:"required,omitempty"`
}

// Schema describes the object a formula returns
type Schema struct {
	Type       ValueType  `json:"type"`
	Properties []Property `json:"properties"`
}

// SchemaOf builds the schema of struct type T from its json and display tags.
// A display tag lists comma-separated options: "required" and a value hint.
func SchemaOf[T any]() Schema {
	schema := Schema{Type: ValueTypeObject}

	t := reflect.TypeOf((*T)(nil)).Elem()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			jsonName, _, _ := strings.Cut(tag, ",")
			if jsonName == "-" {
				continue
			}
			if jsonName != "" {
				name = jsonName
			}
		}

		prop := Property{Name: name, Type: valueTypeOf(field.Type.Kind())}
		for _, opt := range strings.Split(field.Tag.Get("display"), ",") {
			switch opt = strings.TrimSpace(opt); opt {
			case "":
			case "required":
				prop.Required = true
			default:
				prop.Hint = ValueHint(opt)
			}
		}
		schema.Properties = append(schema.Properties, prop)
	}

	return schema
}

func valueTypeOf(kind reflect.Kind) ValueType {
	switch kind {
	case reflect.String:
		return ValueTypeString
	case reflect.Bool:
		return ValueTypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ValueTypeNumber
	default:
		return ValueTypeObject
	}
}
