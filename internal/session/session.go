// Package session keeps per-session conversation state so concurrent users
// never share a chat history.
package session

import (
	"context"

	"orumaiv/internal/common/llm"
)

// State is one session's rolling conversation context.
type State struct {
	ProfileKey   string     `json:"profileKey"`
	SystemPrompt string     `json:"systemPrompt"`
	Turns        []llm.Turn `json:"turns"`
}

// NewState seeds a fresh state with the given persona.
func NewState(profileKey, systemPrompt string) *State {
	return &State{ProfileKey: profileKey, SystemPrompt: systemPrompt}
}

// ResetForProfile discards the history and reseeds the state with a new
// persona. Called whenever the specialist router picks a different profile.
func (s *State) ResetForProfile(profileKey, systemPrompt string) {
	s.ProfileKey = profileKey
	s.SystemPrompt = systemPrompt
	s.Turns = nil
}

// Append adds a turn, dropping the oldest turns beyond maxTurns. A maxTurns
// of zero or less means unbounded.
func (s *State) Append(turn llm.Turn, maxTurns int) {
	s.Turns = append(s.Turns, turn)
	if maxTurns > 0 && len(s.Turns) > maxTurns {
		s.Turns = s.Turns[len(s.Turns)-maxTurns:]
	}
}

// Store persists session state between requests.
type Store interface {
	// Get returns the stored state or nil when the session is unknown or
	// expired.
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, state *State) error
	Delete(ctx context.Context, id string) error
}
