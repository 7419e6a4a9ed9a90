package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties:  false,
	DoNotReference:             true,
	RequiredFromJSONSchemaTags: true,
}

// GenerateSchema reflects T into an inline JSON schema in which every object
// is closed and lists all of its properties as required, in field order.
// Both OpenAI strict mode and the Bedrock instruction fallback use it.
func GenerateSchema[T any]() map[string]interface{} {
	var v T
	s := reflector.Reflect(v)
	s.Version = ""
	s.ID = ""
	closeObjects(s)

	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("marshal schema for %T: %v", v, err))
	}
	var def map[string]interface{}
	if err := json.Unmarshal(b, &def); err != nil {
		panic(fmt.Sprintf("decode schema for %T: %v", v, err))
	}
	return def
}

// SchemaFor wraps GenerateSchema in a named Schema.
func SchemaFor[T any](name, description string) *Schema {
	return &Schema{Name: name, Description: description, Definition: GenerateSchema[T]()}
}

func closeObjects(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if s.Type == "object" {
		s.AdditionalProperties = jsonschema.FalseSchema
		s.Required = nil
	}
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			if s.Type == "object" {
				s.Required = append(s.Required, p.Key)
			}
			closeObjects(p.Value)
		}
	}
	closeObjects(s.Items)
}
