package registration

import (
	"encoding/json"
	"fmt"
)

// OIDCMethod is the only flow method this service renders.
const OIDCMethod = "oidc"

// Flow is a self-service registration flow as returned by the identity
// provider. It is built once per request by Parse and only read afterwards.
type Flow struct {
	ID         string  `json:"id,omitempty"`
	Type       string  `json:"type,omitempty"`
	RequestURL string  `json:"request_url,omitempty"`
	IssuedAt   string  `json:"issued_at,omitempty"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
	Methods    Methods `json:"methods"`
}

// Methods holds the flow methods this service understands. Entries for any
// other method name are skipped without being decoded.
type Methods struct {
	OIDC Method `json:"oidc"`
}

// Method wraps the form configuration of a single flow method.
type Method struct {
	Config Config `json:"config"`
}

// Config describes the form the user submits to the identity provider.
type Config struct {
	Action   string    `json:"action"`
	Method   string    `json:"method"`
	Messages []Message `json:"messages,omitempty"`
	Fields   []Field   `json:"fields"`
}

// Message is a status message attached to a flow.
// ID is kept as raw JSON because the provider has changed its type before.
// An absent id is stored as null.
type Message struct {
	ID   json.RawMessage `json:"id"`
	Type string          `json:"type"`
	Text string          `json:"text"`
}

// Field is a single form input. A nil Value means the user supplies it.
type Field struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Required bool    `json:"required,omitempty"`
	Value    *string `json:"value,omitempty"`
}

// Form returns the OIDC form configuration.
func (f *Flow) Form() *Config {
	return &f.Methods.OIDC.Config
}

// HasValue reports whether the provider pre-populated the field.
func (f Field) HasValue() bool {
	return f.Value != nil
}

// DisplayValue returns the pre-populated value, or "" when absent.
func (f Field) DisplayValue() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

// Parse decodes raw upstream bytes into a Flow. Unknown keys are ignored;
// missing or null required keys and mistyped values are reported as a
// *DeserializationError.
func Parse(raw []byte) (*Flow, error) {
	var flow Flow
	if err := json.Unmarshal(raw, &flow); err != nil {
		return nil, &DeserializationError{Err: err}
	}
	return &flow, nil
}

// The UnmarshalJSON methods below decode into pointer-typed mirrors so that
// an absent key can be told apart from a zero value.

func (f *Flow) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         json.RawMessage             `json:"id"`
		Type       json.RawMessage             `json:"type"`
		RequestURL json.RawMessage             `json:"request_url"`
		IssuedAt   json.RawMessage             `json:"issued_at"`
		ExpiresAt  json.RawMessage             `json:"expires_at"`
		Methods    map[string]*json.RawMessage `json:"methods"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Methods == nil {
		return missingField("methods")
	}

	raw := wire.Methods[OIDCMethod]
	if raw == nil {
		return missingField("methods." + OIDCMethod)
	}

	var method Method
	if err := json.Unmarshal(*raw, &method); err != nil {
		return fmt.Errorf("methods.%s: %w", OIDCMethod, err)
	}

	*f = Flow{
		ID:         informational(wire.ID),
		Type:       informational(wire.Type),
		RequestURL: informational(wire.RequestURL),
		IssuedAt:   informational(wire.IssuedAt),
		ExpiresAt:  informational(wire.ExpiresAt),
		Methods:    Methods{OIDC: method},
	}
	return nil
}

func (m *Method) UnmarshalJSON(data []byte) error {
	var wire struct {
		Config *Config `json:"config"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Config == nil {
		return missingField("config")
	}
	m.Config = *wire.Config
	return nil
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var wire struct {
		Action   *string   `json:"action"`
		Method   *string   `json:"method"`
		Messages []Message `json:"messages"`
		Fields   *[]Field  `json:"fields"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Action == nil:
		return missingField("action")
	case wire.Method == nil:
		return missingField("method")
	case wire.Fields == nil:
		return missingField("fields")
	}

	*c = Config{
		Action:   *wire.Action,
		Method:   *wire.Method,
		Messages: wire.Messages,
		Fields:   *wire.Fields,
	}
	return nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID   json.RawMessage `json:"id"`
		Type *string         `json:"type"`
		Text *string         `json:"text"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Type == nil:
		return missingField("type")
	case wire.Text == nil:
		return missingField("text")
	}
	if wire.ID == nil {
		wire.ID = json.RawMessage("null")
	}

	*m = Message{ID: wire.ID, Type: *wire.Type, Text: *wire.Text}
	return nil
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name     *string `json:"name"`
		Type     *string `json:"type"`
		Required *bool   `json:"required"`
		Value    *string `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Name == nil:
		return missingField("name")
	case wire.Type == nil:
		return missingField("type")
	}

	*f = Field{
		Name:     *wire.Name,
		Type:     *wire.Type,
		Required: wire.Required != nil && *wire.Required,
		Value:    wire.Value,
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

// informational returns raw as a string when it holds a JSON string and ""
// otherwise. These keys are only logged, so a shape change must not fail parsing.
func informational(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
