package service

import (
	"errors"
	"strings"

	"github.com/infolink/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserService wraps user related database operations.
type UserService struct {
	db *gorm.DB
}

// UserInput represents fields accepted when registering a user.
type UserInput struct {
	Email    string
	Username string
	Password string
}

// UserPatch represents the optional fields of a partial user update.
type UserPatch struct {
	Email    *string
	Username *string
	Password *string
	IsActive *bool
	IsAdmin  *bool
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// GetByID fetches a user by id, excluding soft-deleted rows.
func (s *UserService) GetByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetches a user by email, excluding soft-deleted rows.
func (s *UserService) GetByEmail(email string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create registers a new active user with a bcrypt hashed password.
func (s *UserService) Create(input UserInput) (*db.User, error) {
	email := strings.TrimSpace(input.Email)

	var existing db.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Email:        email,
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial patch to an existing user. A password in the
// patch is re-hashed before being stored.
func (s *UserService) Update(id uint, patch UserPatch) (*db.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email != user.Email {
			var existing db.User
			err := s.db.Where("email = ?", email).First(&existing).Error
			if err == nil {
				return nil, ErrEmailTaken
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsAdmin != nil {
		user.IsAdmin = *patch.IsAdmin
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
