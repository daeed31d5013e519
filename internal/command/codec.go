package command

import (
	"encoding/json"
	"fmt"
)

// UnknownKindError reports a persisted command whose kind this build
// does not know. The schema only ever evolves by adding kinds, so old
// payloads always decode; new ones are rejected loudly instead of being
// silently dropped.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown command kind %q", e.Kind)
}

const (
	kindMoveFile = "move_file"
	kindBulkMove = "bulk_move"
)

type commandEnvelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeJSON serializes a command as a tagged envelope for persistence.
func EncodeJSON(cmd Command) ([]byte, error) {
	var kind string
	switch cmd.(type) {
	case MoveFile:
		kind = kindMoveFile
	case BulkMove:
		kind = kindBulkMove
	default:
		return nil, fmt.Errorf("cannot encode command %T", cmd)
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(commandEnvelope{Kind: kind, Payload: payload})
}

// DecodeJSON deserializes a tagged command envelope.
func DecodeJSON(data []byte) (Command, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode command envelope: %w", err)
	}
	switch env.Kind {
	case kindMoveFile:
		var c MoveFile
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, fmt.Errorf("decode move command: %w", err)
		}
		return c, nil
	case kindBulkMove:
		var c BulkMove
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, fmt.Errorf("decode bulk move command: %w", err)
		}
		return c, nil
	}
	return nil, &UnknownKindError{Kind: env.Kind}
}
