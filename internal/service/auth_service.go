package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"water-report-service/internal/auth"
	"water-report-service/internal/model"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	GetByID(ctx context.Context, id uint) (*model.AdminUser, error)
	Create(ctx context.Context, admin *model.AdminUser) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	admins AdminStore
	tokens *auth.Tokens
	now    func() time.Time
}

func NewAuthService(admins AdminStore, tokens *auth.Tokens) *AuthService {
	return &AuthService{admins: admins, tokens: tokens, now: time.Now}
}

type LoginResult struct {
	Token string             `json:"token"`
	Admin model.AdminProfile `json:"admin"`
}

// Login verifies credentials and issues a session token. Unknown accounts
// and wrong passwords produce the same error so callers cannot probe for
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID, s.now()); err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(admin)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		Admin: model.NewAdminProfile(*admin),
	}, nil
}

func (s *AuthService) GetAdminByID(ctx context.Context, id uint) (*model.AdminProfile, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}
	profile := model.NewAdminProfile(*admin)
	return &profile, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		verr := &ValidationError{}
		verr.add("newPassword", "must be at least 8 characters")
		return verr
	}

	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	return s.admins.UpdatePasswordHash(ctx, id, string(hash))
}

// CreateAdmin provisions a staff account; used by the create-admin CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string, role model.AdminRole) (*model.AdminProfile, error) {
	if len(password) < minPasswordLength {
		verr := &ValidationError{}
		verr.add("password", "must be at least 8 characters")
		return nil, verr
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &model.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	profile := model.NewAdminProfile(*admin)
	return &profile, nil
}
