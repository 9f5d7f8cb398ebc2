package dialogue

import (
	"context"
	"time"
)

type State string

const (
	StateIdle State = "idle"

	StateRegisterUsername State = "register.username"
	StateRegisterPassword State = "register.password"

	StateLoginUsername State = "login.username"
	StateLoginPassword State = "login.password"

	StateCreateTitle   State = "create.title"
	StateCreateContent State = "create.content"
	StateCreateTags    State = "create.tags"

	StateUpdateId      State = "update.id"
	StateUpdateTitle   State = "update.title"
	StateUpdateContent State = "update.content"

	StateDeleteId  State = "delete.id"
	StateSearchTag State = "search.tag"
)

// Session is the per-conversation dialogue state. Data holds the answers
// collected so far in the current flow.
type Session struct {
	State     State             `json:"state"`
	Data      map[string]string `json:"data"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewSession() *Session {
	return &Session{State: StateIdle, Data: map[string]string{}}
}

// Reset returns the session to idle and forgets collected answers.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Data = map[string]string{}
}

// SessionStore persists sessions by conversation id. Get returns a fresh
// idle session when none is stored.
type SessionStore interface {
	Get(ctx context.Context, conversationId string) (*Session, error)
	Save(ctx context.Context, conversationId string, session *Session) error
	Delete(ctx context.Context, conversationId string) error
}
