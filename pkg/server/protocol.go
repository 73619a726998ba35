package server

import (
	"encoding/json"

	"github.com/embedkit/zoom-embed/pkg/sdk"
)

// WebSocket message types
const (
	MessageTypeSessionState = "session_state"
	MessageTypeParticipants = "participants"
	MessageTypeError        = "error"
)

// SessionStateMessage reports a lifecycle or grid-mode change.
type SessionStateMessage struct {
	Type        string `json:"type"`
	State       string `json:"state"`
	Connection  string `json:"connection,omitempty"`
	GridEnabled bool   `json:"grid_enabled"`
}

// ParticipantInfo is one roster entry.
type ParticipantInfo struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"display_name"`
}

// ParticipantsMessage carries the full current roster.
type ParticipantsMessage struct {
	Type         string            `json:"type"`
	Participants []ParticipantInfo `json:"participants"`
}

// ErrorMessage is sent when an error occurs
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// CreateSessionStateMessage builds a session_state payload.
func CreateSessionStateMessage(state, connection string, gridEnabled bool) ([]byte, error) {
	return json.Marshal(SessionStateMessage{
		Type:        MessageTypeSessionState,
		State:       state,
		Connection:  connection,
		GridEnabled: gridEnabled,
	})
}

// CreateParticipantsMessage builds a roster payload.
func CreateParticipantsMessage(participants []sdk.Participant) ([]byte, error) {
	infos := make([]ParticipantInfo, 0, len(participants))
	for _, p := range participants {
		infos = append(infos, ParticipantInfo{ID: p.ID, DisplayName: p.DisplayName})
	}
	return json.Marshal(ParticipantsMessage{
		Type:         MessageTypeParticipants,
		Participants: infos,
	})
}

// CreateErrorMessage builds an error payload.
func CreateErrorMessage(errMsg string) ([]byte, error) {
	return json.Marshal(ErrorMessage{Type: MessageTypeError, Error: errMsg})
}
