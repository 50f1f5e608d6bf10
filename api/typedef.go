package api

import (
	"encoding/json"
	"fmt"
	"time"

	"tweakpanel/tweak"
	"tweakpanel/typedef"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	MessageTypeCatalog MessageType = "catalog"
	MessageTypeUpdate  MessageType = "update"
	MessageTypeSet     MessageType = "set"
	MessageTypeAck     MessageType = "ack"
	MessageTypeError   MessageType = "error"
)

// WSMessage is the envelope for every message in both directions.
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ValuePayload is the wire form of a control value.
type ValuePayload struct {
	Kind  string    `json:"kind"`
	Float float64   `json:"float,omitempty"`
	Bool  bool      `json:"bool,omitempty"`
	Vec   []float64 `json:"vec,omitempty"`
}

// ControlInfo describes one control in the catalog sent on connect.
type ControlInfo struct {
	Tab      string  `json:"tab"`
	Name     string  `json:"name"`
	Kind     string  `json:"controlKind"`
	Key      string  `json:"key,omitempty"`
	Tooltip  string  `json:"tooltip,omitempty"`
	Editable bool    `json:"editable"`
	Saved    bool    `json:"saved"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Step     float64 `json:"step,omitempty"`
}

// ValueUpdate announces a changed control value to clients.
type ValueUpdate struct {
	Tab   string       `json:"tab"`
	Name  string       `json:"name"`
	Value ValuePayload `json:"value"`
}

// SetRequest is a client's request to write a control value.
type SetRequest struct {
	Tab   string       `json:"tab"`
	Name  string       `json:"name"`
	Value ValuePayload `json:"value"`
}

// decodeSetRequest recovers a SetRequest from the envelope's generic Data
// field, which arrives as whatever encoding/json produced.
func decodeSetRequest(data interface{}) (SetRequest, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return SetRequest{}, fmt.Errorf("decode set request: %w", err)
	}
	var req SetRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return SetRequest{}, fmt.Errorf("decode set request: %w", err)
	}
	if req.Tab == "" || req.Name == "" {
		return SetRequest{}, fmt.Errorf("set request needs tab and name")
	}
	return req, nil
}

func payloadFromValue(v typedef.Value) ValuePayload {
	p := ValuePayload{Kind: v.Kind.String()}
	switch v.Kind {
	case typedef.KindFloat:
		p.Float = v.F
	case typedef.KindBool:
		p.Bool = v.B
	default:
		n := v.Kind.Components()
		p.Vec = append(p.Vec, v.Vec[:n]...)
	}
	return p
}

func (p ValuePayload) toValue() (typedef.Value, error) {
	kind, ok := typedef.ParseValueKind(p.Kind)
	if !ok {
		return typedef.Value{}, fmt.Errorf("unknown value kind %q", p.Kind)
	}
	v := typedef.Value{Kind: kind}
	switch kind {
	case typedef.KindFloat:
		v.F = p.Float
	case typedef.KindBool:
		v.B = p.Bool
	default:
		n := kind.Components()
		if len(p.Vec) != n {
			return typedef.Value{}, fmt.Errorf("kind %q wants %d components, got %d", p.Kind, n, len(p.Vec))
		}
		copy(v.Vec[:], p.Vec)
	}
	return v, nil
}

func infoFromControl(c *tweak.Control) ControlInfo {
	info := ControlInfo{
		Tab:      c.TabName(),
		Name:     c.Name,
		Kind:     c.Kind.String(),
		Tooltip:  c.Tooltip,
		Editable: c.Editable(),
		Saved:    c.Save,
		Step:     c.Step,
	}
	if c.Save {
		info.Key = c.Key()
	}
	if c.Kind == tweak.Slider {
		info.Min, info.Max = c.CurrentBounds()
	}
	return info
}
