// Package dialogue drives the multi-turn chat front end. It collects the
// inputs of each operation one message at a time and forwards them to the
// notes API as the user linked to the conversation.
package dialogue

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/notesclient"
)

// API is the subset of the notes API the dialogue uses. notesclient.Client implements it.
type API interface {
	Register(ctx context.Context, username, password string, externalId *string) (*notesclient.User, error)
	LoginByExternalId(ctx context.Context, externalId string) (*notesclient.Token, error)
	AttachExternalId(ctx context.Context, username, password, externalId string) (*notesclient.User, error)
	CreateNote(ctx context.Context, token string, in notesclient.NoteInput) (*notesclient.Note, error)
	UpdateNote(ctx context.Context, token, id string, upd notesclient.NoteUpdate) (*notesclient.Note, error)
	DeleteNote(ctx context.Context, token, id string) error
	ListNotes(ctx context.Context, token string) ([]notesclient.Note, error)
	SearchByTag(ctx context.Context, token, tag string) ([]notesclient.Note, error)
}

const (
	cmdStart    = "/start"
	cmdHelp     = "/help"
	cmdCancel   = "/cancel"
	cmdRegister = "/register"
	cmdLogin    = "/login"
	cmdCreate   = "/create"
	cmdUpdate   = "/update"
	cmdDelete   = "/delete"
	cmdSearch   = "/search"
	cmdList     = "/list"
)

const (
	msgWelcome      = "Welcome! Use /login to sign in or /register to create an account."
	msgAlreadyIn    = "You are already logged in."
	msgNotLoggedIn  = "You are not logged in. Please sign in with /login."
	msgCancelHint   = "Send /cancel to abort.\n\n"
	msgCancelled    = "Cancelled."
	msgUnknown      = "Unknown command. Send /help for the list of commands."
	msgServiceError = "Something went wrong, please try again later."
)

const helpText = `Commands:
/register  create an account linked to this chat
/login     link this chat to an existing account
/create    create a note
/list      show all your notes
/search    find notes by tag
/update    edit a note
/delete    delete a note
/cancel    abort the current action`

type Machine struct {
	api    API
	store  SessionStore
	logger logger.ILogger
	now    func() time.Time
}

func NewMachine(api API, store SessionStore, log logger.ILogger) *Machine {
	return &Machine{
		api:    api,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Handle processes one inbound message of conversationId and returns the reply.
// conversationId doubles as the external id linked to the user's account.
func (m *Machine) Handle(ctx context.Context, conversationId, text string) (string, error) {
	session, err := m.store.Get(ctx, conversationId)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)

	var reply string
	if strings.HasPrefix(text, "/") {
		reply = m.command(ctx, conversationId, session, text)
	} else {
		reply = m.answer(ctx, conversationId, session, text)
	}

	if session.State == StateIdle {
		err = m.store.Delete(ctx, conversationId)
	} else {
		session.UpdatedAt = m.now().UTC()
		err = m.store.Save(ctx, conversationId, session)
	}
	if err != nil {
		return "", err
	}

	return reply, nil
}

// command starts a flow. Any command abandons the flow in progress.
func (m *Machine) command(ctx context.Context, conversationId string, session *Session, text string) string {
	name := strings.Fields(text)[0]
	session.Reset()

	switch name {
	case cmdCancel:
		return msgCancelled
	case cmdHelp:
		return helpText
	case cmdStart:
		if _, ok, _ := m.token(ctx, conversationId); ok {
			return msgAlreadyIn
		}
		return msgWelcome
	case cmdRegister, cmdLogin:
		_, ok, err := m.token(ctx, conversationId)
		if err != nil {
			return msgServiceError
		}
		if ok {
			return msgAlreadyIn
		}
		if name == cmdRegister {
			session.State = StateRegisterUsername
			return msgCancelHint + "Enter a username to register:"
		}
		session.State = StateLoginUsername
		return msgCancelHint + "Enter your username:"
	case cmdCreate, cmdUpdate, cmdDelete, cmdSearch, cmdList:
		_, ok, err := m.token(ctx, conversationId)
		if err != nil {
			return msgServiceError
		}
		if !ok {
			return msgNotLoggedIn
		}
		return m.startNoteFlow(ctx, conversationId, session, name)
	default:
		return msgUnknown
	}
}

func (m *Machine) startNoteFlow(ctx context.Context, conversationId string, session *Session, name string) string {
	switch name {
	case cmdCreate:
		session.State = StateCreateTitle
		return msgCancelHint + "Enter the note title:"
	case cmdUpdate:
		session.State = StateUpdateId
		return msgCancelHint + "Enter the id of the note to update:"
	case cmdDelete:
		session.State = StateDeleteId
		return msgCancelHint + "Enter the id of the note to delete:"
	case cmdSearch:
		session.State = StateSearchTag
		return msgCancelHint + "Enter a tag to search for:"
	default:
		return m.withToken(ctx, conversationId, func(token string) string {
			notes, err := m.api.ListNotes(ctx, token)
			if err != nil {
				return m.failure("list notes", err)
			}
			if len(notes) == 0 {
				return "You have no notes."
			}
			return FormatNotes(notes)
		})
	}
}

// answer advances the current flow with one plain-text reply.
func (m *Machine) answer(ctx context.Context, conversationId string, session *Session, text string) string {
	switch session.State {
	case StateRegisterUsername:
		session.Data["username"] = text
		session.State = StateRegisterPassword
		return "Enter a password:"

	case StateRegisterPassword:
		username := session.Data["username"]
		session.Reset()
		externalId := conversationId
		if _, err := m.api.Register(ctx, username, text, &externalId); err != nil {
			return m.failure("register", err)
		}
		return "You are registered and logged in!"

	case StateLoginUsername:
		session.Data["username"] = text
		session.State = StateLoginPassword
		return "Enter your password:"

	case StateLoginPassword:
		username := session.Data["username"]
		session.Reset()
		if _, err := m.api.AttachExternalId(ctx, username, text, conversationId); err != nil {
			return m.failure("login", err)
		}
		return "You are logged in!"

	case StateCreateTitle:
		if text == "" {
			return "The title cannot be empty. Enter the note title:"
		}
		session.Data["title"] = text
		session.State = StateCreateContent
		return "Enter the note content:"

	case StateCreateContent:
		if text == "" {
			return "The content cannot be empty. Enter the note content:"
		}
		session.Data["content"] = text
		session.State = StateCreateTags
		return "Enter tags separated by commas (or leave empty):"

	case StateCreateTags:
		in := notesclient.NoteInput{
			Title:   session.Data["title"],
			Content: session.Data["content"],
			Tags:    ParseTags(text),
		}
		session.Reset()
		return m.withToken(ctx, conversationId, func(token string) string {
			note, err := m.api.CreateNote(ctx, token, in)
			if err != nil {
				return m.failure("create note", err)
			}
			return "Note created:\n" + FormatNote(note)
		})

	case StateUpdateId:
		session.Data["id"] = text
		session.State = StateUpdateTitle
		return "Enter a new title (leave empty to keep the current one):"

	case StateUpdateTitle:
		session.Data["title"] = text
		session.State = StateUpdateContent
		return "Enter new content (leave empty to keep the current one):"

	case StateUpdateContent:
		id := session.Data["id"]
		upd := notesclient.NoteUpdate{
			Title:   optional(session.Data["title"]),
			Content: optional(text),
		}
		session.Reset()
		return m.withToken(ctx, conversationId, func(token string) string {
			note, err := m.api.UpdateNote(ctx, token, id, upd)
			if err != nil {
				return m.noteFailure("update note", id, err)
			}
			return "Note updated:\n" + FormatNote(note)
		})

	case StateDeleteId:
		session.Reset()
		return m.withToken(ctx, conversationId, func(token string) string {
			if err := m.api.DeleteNote(ctx, token, text); err != nil {
				return m.noteFailure("delete note", text, err)
			}
			return fmt.Sprintf("Note %s deleted.", text)
		})

	case StateSearchTag:
		session.Reset()
		return m.withToken(ctx, conversationId, func(token string) string {
			notes, err := m.api.SearchByTag(ctx, token, text)
			if err != nil {
				return m.failure("search notes", err)
			}
			if len(notes) == 0 {
				return fmt.Sprintf("No notes tagged %q.", text)
			}
			return FormatNotes(notes)
		})

	default:
		return msgUnknown
	}
}

// token logs the conversation in by its external id. ok is false when the
// conversation is not linked to any account.
func (m *Machine) token(ctx context.Context, conversationId string) (string, bool, error) {
	tok, err := m.api.LoginByExternalId(ctx, conversationId)
	if err != nil {
		if notesclient.StatusOf(err) == http.StatusUnauthorized {
			return "", false, nil
		}
		m.logger.Error("Dialogue", "External id login failed", map[string]interface{}{"error": err})
		return "", false, err
	}
	return tok.AccessToken, true, nil
}

func (m *Machine) withToken(ctx context.Context, conversationId string, fn func(token string) string) string {
	token, ok, err := m.token(ctx, conversationId)
	if err != nil {
		return msgServiceError
	}
	if !ok {
		return msgNotLoggedIn
	}
	return fn(token)
}

func (m *Machine) failure(op string, err error) string {
	switch notesclient.StatusOf(err) {
	case http.StatusBadRequest:
		var apiErr *notesclient.APIError
		if asAPIError(err, &apiErr) {
			return "Invalid input: " + apiErr.Message
		}
	case http.StatusUnauthorized:
		if op == "login" {
			return "Login failed: wrong username or password."
		}
		return msgNotLoggedIn
	case http.StatusConflict:
		return "Registration failed: that username or chat is already registered."
	case http.StatusTooManyRequests:
		return "Too many attempts, please wait a moment."
	}

	m.logger.Error("Dialogue", "API call failed", map[string]interface{}{
		"operation": op,
		"error":     err,
	})
	return msgServiceError
}

func (m *Machine) noteFailure(op, id string, err error) string {
	status := notesclient.StatusOf(err)
	if status == http.StatusNotFound || (status == http.StatusBadRequest && !isNoteId(id)) {
		return fmt.Sprintf("Note %s not found.", id)
	}
	return m.failure(op, err)
}
