package usecase

import (
	"context"
	"errors"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	apperrors "parking-booking/pkg/errors"
	"parking-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo is recorded on the session row at login.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token uuid.UUID) error
}

type authService struct {
	repo   *repository.Repository
	tokens *utils.TokenService
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(repo *repository.Repository, tokens *utils.TokenService, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	existing, err := s.repo.User.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, apperrors.Internal("Failed to register", err)
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.Internal("Failed to process password", err)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Phone:         req.Phone,
		PasswordHash:  hashedPassword,
		VehicleNumber: req.VehicleNumber,
		VehicleType:   entity.VehicleType(req.VehicleType),
		Role:          entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrPhoneTaken
		}
		return nil, apperrors.Internal("Failed to create account", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("vehicle_type", user.VehicleType.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.repo.User.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, apperrors.Internal("Failed to login", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown phone")
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &entity.Session{
		Stamp: entity.Stamp{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(s.tokens.ExpiresIn()),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, session.Token, string(user.Role), now)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperrors.Internal("Failed to create session", err)
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, apperrors.Internal("Failed to create session", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		UserID:      user.ID.String(),
		Token:       token,
		ExpiresAt:   expiresAt,
		Phone:       user.Phone,
		VehicleType: user.VehicleType,
		Role:        user.Role,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if isNotFound(err) {
			return apperrors.Unauthorized("Session already ended")
		}
		return apperrors.Internal("Failed to logout", err)
	}

	s.log.Info("User logged out", zap.String("token", token.String()))
	return nil
}
