package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// payloadSchema is compiled once at startup; the payload shape is fixed for
// the life of the process, so per-response recompilation would be waste.
var payloadSchema = mustCompilePayloadSchema()

func mustCompilePayloadSchema() *jsonschema.Schema {
	b, err := json.Marshal(BuildPayloadJSONSchema())
	if err != nil {
		panic(fmt.Sprintf("marshal payload schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("payload.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add payload schema: %v", err))
	}
	s, err := compiler.Compile("payload.json")
	if err != nil {
		panic(fmt.Sprintf("compile payload schema: %v", err))
	}
	return s
}

// ValidatePayloadJSON checks normalized response JSON against the payload
// schema. Shape only: table rows must be objects, but cell values stay
// free-form for the multiplexer to coerce.
func ValidatePayloadJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := payloadSchema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
