package diagnosis

// SchemaType is a JSON value type understood by every provider.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a provider neutral description of the expected response shape.
// Adapters translate it into their own structured-output format.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Properties  map[string]*Schema
	// Order keeps property order stable for providers that honour it.
	Order    []string
	Required []string
	Items    *Schema
}

// ResponseSchema describes the only response shape the service accepts.
func ResponseSchema() *Schema {
	stringList := func() *Schema {
		return &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}
	}
	imbalances := make([]string, 0, len(Imbalances))
	for _, i := range Imbalances {
		imbalances = append(imbalances, string(i))
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"summary":   {Type: TypeString, Description: "A concise TTM diagnosis summary."},
			"imbalance": {Type: TypeString, Enum: imbalances},
			"logic":     {Type: TypeString, Description: "Detailed logic based on Samutthan 4 factors."},
			"recommendations": {
				Type: TypeObject,
				Properties: map[string]*Schema{
					"food":      stringList(),
					"lifestyle": stringList(),
					"herbs":     stringList(),
				},
				Order:    []string{"food", "lifestyle", "herbs"},
				Required: []string{"food", "lifestyle", "herbs"},
			},
		},
		Order:    []string{"summary", "imbalance", "logic", "recommendations"},
		Required: []string{"summary", "imbalance", "logic", "recommendations"},
	}
}

// JSONSchema renders s as a JSON-Schema document. Objects are closed so
// strict structured-output modes accept it.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
		out["required"] = append([]string{}, s.Required...)
		out["additionalProperties"] = false
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	return out
}
