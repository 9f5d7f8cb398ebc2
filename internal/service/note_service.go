package service

import (
	"context"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/apperr"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

// INoteService scopes every operation to userId, the identity resolved by the
// gate. A note owned by someone else is reported exactly like a missing one.
type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error)
	SearchByTag(ctx context.Context, userId uuid.UUID, tag string) ([]*dto.NoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
	clock            Clock
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
	clock Clock,
) INoteService {
	if clock == nil {
		clock = SystemClock
	}
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
		clock:            clock,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := c.clock()
	note := entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		c.logger.Error("NoteService", "Failed to create note", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err,
		})
		return nil, apperr.Store("create note", err)
	}

	emitEvent(ctx, c.publisherService, c.logger, events.NoteCreated, map[string]interface{}{
		"note_id": note.Id.String(),
		"user_id": userId.String(),
	}, now)

	return toNoteResponse(&note), nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.NoteOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Store("find note", err)
	}
	if note == nil {
		return nil, apperr.ErrNoteNotFound
	}

	return toNoteResponse(note), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Store("begin update note", err)
	}
	defer uow.Rollback()

	patch := entity.NotePatch{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}

	now := c.clock()
	found, err := uow.NoteRepository().ApplyPatch(ctx, req.Id, userId, patch, now)
	if err != nil {
		return nil, apperr.Store("update note", err)
	}
	if !found {
		return nil, apperr.ErrNoteNotFound
	}

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.NoteOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, apperr.Store("reload note", err)
	}
	if note == nil {
		return nil, apperr.ErrNoteNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, apperr.Store("commit update note", err)
	}

	emitEvent(ctx, c.publisherService, c.logger, events.NoteUpdated, map[string]interface{}{
		"note_id": note.Id.String(),
		"user_id": userId.String(),
	}, now)

	return toNoteResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Store("begin delete note", err)
	}
	defer uow.Rollback()

	deleted, err := uow.NoteRepository().Delete(ctx, id, userId)
	if err != nil {
		return nil, apperr.Store("delete note", err)
	}
	if !deleted {
		return nil, apperr.ErrNoteNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, apperr.Store("commit delete note", err)
	}

	emitEvent(ctx, c.publisherService, c.logger, events.NoteDeleted, map[string]interface{}{
		"note_id": id.String(),
		"user_id": userId.String(),
	}, c.clock())

	return &dto.DeleteNoteResponse{Id: id}, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID) ([]*dto.NoteResponse, error) {
	return c.findAll(ctx,
		specification.NoteOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (c *noteService) SearchByTag(ctx context.Context, userId uuid.UUID, tag string) ([]*dto.NoteResponse, error) {
	return c.findAll(ctx,
		specification.NoteOwnedByUser{UserID: userId},
		specification.HasTag{Tag: tag},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

// findAll never returns a nil slice; no match is an empty result, not an error.
func (c *noteService) findAll(ctx context.Context, specs ...specification.Specification) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperr.Store("list notes", err)
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		res = append(res, toNoteResponse(note))
	}
	return res, nil
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
