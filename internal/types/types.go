package types

import (
	"errors"

	"github.com/DoyleJ11/yahtzee-backend/internal/engine"
)

// Machine-readable error codes shared by HTTP and websocket responses.
const (
	CodeNoRollsRemaining = "no_rolls_remaining"
	CodeNoDiceToScore    = "no_dice_to_score"
	CodeInvalidPosition  = "invalid_position"
	CodeUnknownCategory  = "unknown_category"
	CodeUnsupported      = "unsupported_command"
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal"
)

type ClientMessage struct {
	Type      string `json:"type"` // "Roll" | "Reroll" | "Score"
	Positions []int  `json:"positions,omitempty"`
	Category  string `json:"category,omitempty"`
}

type ServerMessage struct {
	Type      string         `json:"type"` // "StateSnapshot" | "Error"
	Version   int            `json:"version,omitempty"`
	Code      string         `json:"code,omitempty"`
	Round     *engine.View   `json:"round,omitempty"`
	Events    []engine.Event `json:"events,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
}

func ErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrNoRollsRemaining):
		return CodeNoRollsRemaining
	case errors.Is(err, engine.ErrNoDiceToScore):
		return CodeNoDiceToScore
	case errors.Is(err, engine.ErrInvalidPosition):
		return CodeInvalidPosition
	case errors.Is(err, engine.ErrUnknownCategory):
		return CodeUnknownCategory
	case errors.Is(err, engine.ErrUnsupportedCommand):
		return CodeUnsupported
	default:
		return CodeInternal
	}
}

func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: "Error", Error: err.Error(), ErrorCode: ErrorCode(err)}
}
