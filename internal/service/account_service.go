package service

import (
	"errors"
	"strings"

	"github.com/blogapp/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 对未知邮箱和错误密码返回同一个错误，防止账号枚举。
	ErrInvalidCredentials = errors.New("invalid login attempt")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService wraps user credential storage and verification.
type AccountService struct {
	db *gorm.DB
}

// RegisterInput represents the fields accepted by registration.
type RegisterInput struct {
	FullName  string
	Email     string
	ContactNo string
	Password  string
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// Register creates a user with a bcrypt password hash. The role decision and
// the insert share one transaction: the first user ever becomes admin,
// everyone after that a regular user.
func (s *AccountService) Register(input RegisterInput) (*db.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		ContactNo:    strings.TrimSpace(input.ContactNo),
		PasswordHash: string(hashed),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.User
		if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&db.User{}).Count(&count).Error; err != nil {
			return err
		}

		user.Role = db.RoleUser
		if count == 0 {
			user.Role = db.RoleAdmin
		}

		return tx.Create(&user).Error
	}); err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate verifies email and password against the stored hash.
func (s *AccountService) Authenticate(email, password string) (*db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Get fetches a user by id.
func (s *AccountService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
