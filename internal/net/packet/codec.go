package packet

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Client message types.
const (
	TypePointer        = "pointer"
	TypeStartDay       = "start_day"
	TypeEndDay         = "end_day"
	TypePause          = "pause"
	TypeResume         = "resume"
	TypeSetPrice       = "set_price"
	TypeHire           = "hire"
	TypeBuyIngredients = "buy_ingredients"
	TypeUpgradeKitchen = "upgrade_kitchen"
)

// Envelope is one inbound client message after validation.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Client  string          `json:"-"` // session id, filled in by the input system
}

//go:embed schema/client.schema.json
var clientSchema []byte

const schemaURL = "client.schema.json"

// Codec validates raw client frames against the embedded schema.
// Compiled schemas are read-only and safe for concurrent use.
type Codec struct {
	schema *jsonschema.Schema
}

func NewCodec() (*Codec, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(schemaURL, bytes.NewReader(clientSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Codec{schema: s}, nil
}

// Decode parses and validates one frame.
func (c *Codec) Decode(raw []byte) (Envelope, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Envelope{}, fmt.Errorf("decode json: %w", err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return Envelope{}, fmt.Errorf("validate: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
