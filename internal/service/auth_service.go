package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"trade-alerts-be/internal/dto"
	"trade-alerts-be/internal/entity"
	"trade-alerts-be/internal/pkg/logger"
	"trade-alerts-be/internal/pkg/mailer"
	"trade-alerts-be/internal/pkg/serverutils"
	"trade-alerts-be/internal/repository/specification"
	"trade-alerts-be/internal/repository/unitofwork"
	"trade-alerts-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	mail       mailer.IEmailService
	bus        EventPublisher
	logger     logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, mail mailer.IEmailService, bus EventPublisher, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		mail:       mail,
		bus:        bus,
		logger:     log,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hashStr,
		FullName:     req.FullName,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	token := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     generateToken(),
		ExpiresAt: time.Now().Add(tokenTTL),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.VerificationTokenRepository().Create(ctx, token); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.mail.SendVerification(user.Email, token.Token); err != nil {
		s.logger.Warn("auth", "Verification email failed", map[string]interface{}{"error": err.Error()})
	}

	if s.bus != nil {
		evt := events.BaseEvent{
			Type:       events.TypeUserRegistered,
			Data:       map[string]interface{}{"user_id": user.Id.String(), "full_name": user.FullName},
			OccurredAt: time.Now(),
		}
		if err := s.bus.Publish(ctx, evt); err != nil {
			s.logger.Warn("auth", "Registration event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("auth", "User registered", map[string]interface{}{"user_id": user.Id, "email": user.Email})

	res := mapUserResponse(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrUnauthorized
	}
	if !user.EmailVerified {
		return nil, ErrEmailUnverified
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, ErrUnauthorized
	}

	token, err := serverutils.GenerateToken(user.Id, string(user.Role), tokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  mapUserResponse(user),
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, tokenStr string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	token, err := uow.VerificationTokenRepository().FindOne(ctx, specification.ByToken{Token: tokenStr})
	if err != nil {
		return err
	}
	if token == nil || time.Now().After(token.ExpiresAt) {
		return ErrNotFound
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: token.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	user.Status = entity.UserStatusActive
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}
	if err := uow.VerificationTokenRepository().DeleteByUserId(ctx, user.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) ResendVerification(ctx context.Context, email string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	// Don't reveal whether the email is registered.
	if user == nil || user.EmailVerified {
		return nil
	}

	token := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     generateToken(),
		ExpiresAt: time.Now().Add(tokenTTL),
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.VerificationTokenRepository().DeleteByUserId(ctx, user.Id); err != nil {
		return err
	}
	if err := uow.VerificationTokenRepository().Create(ctx, token); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	return s.mail.SendVerification(user.Email, token.Token)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return err
	}
	if user == nil || user.PasswordHash == nil {
		return ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr

	return uow.UserRepository().Update(ctx, user)
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func mapUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:            user.Id,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt,
	}
}
