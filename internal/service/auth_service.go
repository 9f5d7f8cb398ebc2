package service

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/token"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/apperr"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenType = "bearer"

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	LoginByExternalId(ctx context.Context, req *dto.LoginByExternalIdRequest) (*dto.TokenResponse, error)
	AttachExternalId(ctx context.Context, req *dto.AttachExternalIdRequest) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory       unitofwork.RepositoryFactory
	gate             IGateService
	tokens           *token.Manager
	publisherService IPublisherService
	logger           logger.ILogger
	clock            Clock
	bcryptCost       int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	gate IGateService,
	tokens *token.Manager,
	publisherService IPublisherService,
	log logger.ILogger,
	clock Clock,
	bcryptCost int,
) IAuthService {
	if clock == nil {
		clock = SystemClock
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		uowFactory:       uowFactory,
		gate:             gate,
		tokens:           tokens,
		publisherService: publisherService,
		logger:           log,
		clock:            clock,
		bcryptCost:       bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	externalId := normalizeExternalId(req.ExternalId)

	// Hash outside the transaction.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Store("hash password", err)
	}

	now := s.clock()
	user := &entity.User{
		Id:             uuid.New(),
		Username:       req.Username,
		PasswordHash:   string(hash),
		ExternalChatId: externalId,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Store("begin register", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, apperr.Store("find user by username", err)
	}
	if existing != nil {
		return nil, apperr.ErrUsernameTaken
	}

	if externalId != nil {
		linked, err := uow.UserRepository().FindOne(ctx, specification.ByExternalChatID{ExternalChatID: *externalId})
		if err != nil {
			return nil, apperr.Store("find user by external id", err)
		}
		if linked != nil {
			return nil, apperr.ErrExternalIdTaken
		}
	}

	// The unique indexes still decide when two registrations race past the checks above.
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, translateUserConflict("create user", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, translateUserConflict("commit register", err)
	}

	s.logger.Info("AuthService", "User registered", map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	})
	emitEvent(ctx, s.publisherService, s.logger, events.UserRegistered, map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	}, now)

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.verifyCredentials(ctx, uow, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	return s.issueToken(user.Id)
}

func (s *authService) LoginByExternalId(ctx context.Context, req *dto.LoginByExternalIdRequest) (*dto.TokenResponse, error) {
	userId, linked, err := s.gate.ResolveExternal(ctx, req.ExternalId)
	if err != nil {
		return nil, err
	}
	if !linked {
		s.logger.Warn("AuthService", "Login by external id rejected", map[string]interface{}{
			"reason": "not_linked",
		})
		return nil, apperr.ErrUnauthorized
	}

	return s.issueToken(userId)
}

func (s *authService) AttachExternalId(ctx context.Context, req *dto.AttachExternalIdRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Store("begin attach external id", err)
	}
	defer uow.Rollback()

	user, err := s.verifyCredentials(ctx, uow, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if user.ExternalChatId != nil && *user.ExternalChatId == req.ExternalId {
		return toUserResponse(user), nil
	}

	linked, err := uow.UserRepository().FindOne(ctx, specification.ByExternalChatID{ExternalChatID: req.ExternalId})
	if err != nil {
		return nil, apperr.Store("find user by external id", err)
	}
	if linked != nil && linked.Id != user.Id {
		return nil, apperr.ErrExternalIdTaken
	}

	if err := uow.UserRepository().UpdateExternalChatId(ctx, user.Id, req.ExternalId); err != nil {
		return nil, translateUserConflict("update external id", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, translateUserConflict("commit attach external id", err)
	}

	externalId := req.ExternalId
	user.ExternalChatId = &externalId

	emitEvent(ctx, s.publisherService, s.logger, events.ExternalIdAttached, map[string]interface{}{
		"user_id": user.Id.String(),
	}, s.clock())

	return toUserResponse(user), nil
}

// verifyCredentials always runs one bcrypt comparison so response time does
// not reveal whether the username exists.
func (s *authService) verifyCredentials(ctx context.Context, uow unitofwork.UnitOfWork, username, password string) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, apperr.Store("find user by username", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
		s.logger.Warn("AuthService", "Credential check failed", map[string]interface{}{
			"username": username,
			"reason":   "user_not_found",
		})
		return nil, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("AuthService", "Credential check failed", map[string]interface{}{
			"username": username,
			"reason":   "password_mismatch",
		})
		return nil, apperr.ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		secret := make([]byte, 32)
		_, _ = rand.Read(secret)
		hash, err := bcrypt.GenerateFromPassword(secret, s.bcryptCost)
		if err != nil {
			hash = secret
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *authService) issueToken(userId uuid.UUID) (*dto.TokenResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(userId)
	if err != nil {
		return nil, apperr.Store("sign token", err)
	}
	return &dto.TokenResponse{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

func translateUserConflict(op string, err error) error {
	switch {
	case errors.Is(err, contract.ErrDuplicateUsername):
		return apperr.ErrUsernameTaken
	case errors.Is(err, contract.ErrDuplicateExternalChatId):
		return apperr.ErrExternalIdTaken
	default:
		return apperr.Store(op, err)
	}
}

// normalizeExternalId treats an empty external id as absent.
func normalizeExternalId(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:         u.Id,
		Username:   u.Username,
		ExternalId: u.ExternalChatId,
		CreatedAt:  u.CreatedAt,
	}
}
