package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pdflingua/internal/model"
	"pdflingua/internal/pkg/jwtutil"
	"pdflingua/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrInvalidRefresh    = errors.New("invalid refresh token")
	ErrUserNotFound      = errors.New("user not found")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	accessExpire  time.Duration
	refreshExpire time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Identifier string // username or email
	Password   string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, accessExpire, refreshExpire time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	password := strings.TrimSpace(input.Password)
	if identifier == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := jwtutil.ParseRefreshToken(s.jwtSecret, strings.TrimSpace(refreshToken))
	if err != nil {
		return "", ErrInvalidRefresh
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidRefresh
	}

	access, err := jwtutil.GenerateToken(s.jwtSecret, s.accessExpire, user.ID, user.Username)
	if err != nil {
		return "", err
	}
	return access, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

type UpdateProfileInput struct {
	Username string
	Email    string
}

func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}
	if email := strings.TrimSpace(strings.ToLower(input.Email)); email != "" {
		user.Email = email
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResult, error) {
	access, err := jwtutil.GenerateToken(s.jwtSecret, s.accessExpire, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := jwtutil.GenerateRefreshToken(s.jwtSecret, s.refreshExpire, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
