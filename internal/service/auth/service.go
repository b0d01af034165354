package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/repository"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/apperrors"
)

type Service struct {
	users     *repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewService(users *repository.UserRepository, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{users: users, jwtSecret: jwtSecret, logger: logger}
}

func (s *Service) Register(ctx context.Context, email, name, role, password string) (*model.User, string, error) {
	var violations []string
	if !strings.Contains(email, "@") {
		violations = append(violations, "email is not valid")
	}
	if name == "" {
		violations = append(violations, "name is required")
	}
	if role == "" {
		violations = append(violations, "role is required")
	}
	if len(password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	if len(violations) > 0 {
		return nil, "", apperrors.Validation("invalid registration", violations)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{Email: email, Name: name, Role: role, PasswordHash: hash}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, "", err
	}
	u.ID = id

	token, err := util.GenerateJWT(u.ID, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, "", apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, "", err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		s.logger.Warn("Failed login attempt", zap.String("email", email))
		return nil, "", apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := util.GenerateJWT(u.ID, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
