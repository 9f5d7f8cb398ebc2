package service

import (
	"context"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/apperr"

	"github.com/google/uuid"
)

// IGateService turns credential proofs into a user id. The id it returns is
// the only owner filter note operations ever use.
type IGateService interface {
	ResolveBearer(tokenString string) (uuid.UUID, error)
	// ResolveExternal reports linked=false, without error, when no user owns externalId.
	ResolveExternal(ctx context.Context, externalId string) (userId uuid.UUID, linked bool, err error)
}

type gateService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *token.Manager
	logger     logger.ILogger
}

func NewGateService(uowFactory unitofwork.RepositoryFactory, tokens *token.Manager, log logger.ILogger) IGateService {
	return &gateService{
		uowFactory: uowFactory,
		tokens:     tokens,
		logger:     log,
	}
}

func (s *gateService) ResolveBearer(tokenString string) (uuid.UUID, error) {
	userId, err := s.tokens.Validate(tokenString)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return userId, nil
}

func (s *gateService) ResolveExternal(ctx context.Context, externalId string) (uuid.UUID, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByExternalChatID{ExternalChatID: externalId})
	if err != nil {
		s.logger.Error("Gate", "External id lookup failed", map[string]interface{}{"error": err})
		return uuid.Nil, false, apperr.Store("find user by external id", err)
	}
	if user == nil {
		return uuid.Nil, false, nil
	}
	return user.Id, true, nil
}
