// Package account covers registration, login, profile maintenance and the
// token-based password reset.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopmobile/internal/model"
	"shopmobile/pkg/errs"
	"shopmobile/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetTokenTTL bounds how long a password-reset token stays usable.
const ResetTokenTTL = 15 * time.Minute

// TokenStore holds single-use reset tokens. The production implementation
// is redis-backed; tests substitute an in-memory one.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Consume returns the user the token was issued for and deletes it.
	Consume(ctx context.Context, token string) (uint, error)
}

type Service struct {
	db     *gorm.DB
	tokens TokenStore
}

func NewService(db *gorm.DB, tokens TokenStore) *Service {
	return &Service{db: db, tokens: tokens}
}

// Register creates a user and signs them in immediately; there is no email
// verification step.
func (s *Service) Register(username, email, password, fullName string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username, email and password are required", errs.ErrValidation)
	}

	var cnt int64
	s.db.Model(&model.User{}).Where("username = ?", username).Count(&cnt)
	if cnt > 0 {
		return nil, "", fmt.Errorf("%w: username %q already exists", errs.ErrConflict, username)
	}
	s.db.Model(&model.User{}).Where("email = ?", email).Count(&cnt)
	if cnt > 0 {
		return nil, "", fmt.Errorf("%w: email %q already exists", errs.ErrConflict, email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, "", err
	}

	token, err := jwt.GenerateToken(u.ID, u.Username, u.CanAdmin())
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Login verifies username+password. The failure error is identical for an
// unknown user and a wrong password.
func (s *Service) Login(username, password string) (*model.User, string, error) {
	var u model.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", errs.ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", errs.ErrValidation)
	}
	token, err := jwt.GenerateToken(u.ID, u.Username, u.CanAdmin())
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *Service) Get(userID uint) (*model.User, error) {
	var u model.User
	if err := s.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", errs.ErrNotFound, userID)
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes name and email. A new email must stay unique.
func (s *Service) UpdateProfile(userID uint, fullName, email string) (*model.User, error) {
	u, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	var cnt int64
	s.db.Model(&model.User{}).Where("email = ? AND id <> ?", email, userID).Count(&cnt)
	if cnt > 0 {
		return nil, fmt.Errorf("%w: email %q already exists", errs.ErrConflict, email)
	}
	u.FullName = fullName
	u.Email = email
	if err := s.db.Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", errs.ErrValidation)
	}
	u, err := s.Get(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password is incorrect", errs.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(u).Update("password", string(hashed)).Error
}

// RequestPasswordReset issues a single-use token for the account with that
// email. The token goes to the mail collaborator, never a new password.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var u model.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: no account with that email", errs.ErrNotFound)
		}
		return "", err
	}
	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, u.ID, ResetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", errs.ErrValidation)
	}
	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	result := s.db.Model(&model.User{}).Where("id = ?", userID).Update("password", string(hashed))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", errs.ErrNotFound, userID)
	}
	return nil
}
