package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/principia-juego/server/internal/engine"
)

// CommandEnvelope is the wire form of a player command. Kind selects the
// variant, ActorID names the seat, and Payload holds the variant's fields.
type CommandEnvelope struct {
	Kind    string          `json:"kind"`
	ActorID string          `json:"actor_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeCommand turns a wire envelope into a typed engine command. The
// actor always comes from the envelope, never from the payload.
func DecodeCommand(env CommandEnvelope) (engine.Command, error) {
	payload := env.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	build := func(cmd engine.Command, err error) (engine.Command, error) {
		if err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", env.Kind, err)
		}
		return cmd, nil
	}

	switch engine.CommandKind(env.Kind) {
	case engine.KindTakeGrant:
		var c engine.TakeGrant
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindTakeSubvention:
		return engine.TakeSubvention{Base: engine.NewBase(env.ActorID)}, nil
	case engine.KindPlayActionCard:
		var c engine.PlayActionCard
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindExecuteSubAction:
		var c engine.ExecuteSubAction
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindEndAction:
		return engine.EndAction{Base: engine.NewBase(env.ActorID)}, nil
	case engine.KindPassTurn:
		return engine.PassTurn{Base: engine.NewBase(env.ActorID)}, nil
	case engine.KindUseIntrigue:
		var c engine.UseIntrigue
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindUseOpportunity:
		var c engine.UseOpportunity
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindRequestJoin:
		var c engine.RequestJoin
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindApproveJoin:
		var c engine.ApproveJoin
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindRejectJoin:
		var c engine.RejectJoin
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindContribute:
		var c engine.Contribute
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindFoundConsortium:
		var c engine.FoundConsortium
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindCompleteConsortium:
		var c engine.CompleteConsortium
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindPlaceHex:
		var c engine.PlaceHex
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindCancelHexPlacement:
		return engine.CancelHexPlacement{Base: engine.NewBase(env.ActorID)}, nil
	case engine.KindStartResearch:
		var c engine.StartResearch
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindHireScientist:
		var c engine.HireScientist
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	case engine.KindPublish:
		var c engine.Publish
		err := json.Unmarshal(payload, &c)
		c.Base = engine.NewBase(env.ActorID)
		return build(c, err)
	}
	return nil, fmt.Errorf("unknown command kind %q", env.Kind)
}

// RejectionEnvelope is echoed to the submitting client when its command is
// refused. Failure carries the engine's typed kind; other clients never see
// rejections.
type RejectionEnvelope struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Failure string `json:"failure"`
	Detail  string `json:"detail,omitempty"`
}

// EncodeRejection serializes a command failure for the wire.
func EncodeRejection(kind string, err error) []byte {
	env := RejectionEnvelope{Type: "command_rejected", Command: kind}

	var engErr *engine.Error
	if errors.As(err, &engErr) {
		env.Failure = string(engErr.Kind)
		env.Detail = engErr.Detail
	} else {
		env.Failure = "bad_envelope"
		env.Detail = err.Error()
	}

	data, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		return []byte(`{"type":"command_rejected","failure":"bad_envelope"}`)
	}
	return data
}
