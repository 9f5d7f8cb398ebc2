package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/testdb"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

// stepClock advances one second per call so successive writes get distinct timestamps.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func (p *recordingPublisher) All() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fixture struct {
	auth      service.IAuthService
	notes     service.INoteService
	gate      service.IGateService
	tokens    *token.Manager
	publisher *recordingPublisher
	clock     *stepClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()
	clock := newStepClock()
	publisher := &recordingPublisher{}
	tokens := token.NewManager("test-secret", 30*time.Minute)
	gate := service.NewGateService(factory, tokens, log)

	return &fixture{
		auth:      service.NewAuthService(factory, gate, tokens, publisher, log, clock.Now, bcrypt.MinCost),
		notes:     service.NewNoteService(factory, publisher, log, clock.Now),
		gate:      gate,
		tokens:    tokens,
		publisher: publisher,
		clock:     clock,
	}
}
