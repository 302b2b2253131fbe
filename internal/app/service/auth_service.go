package service

import (
	"context"
	"errors"
	"strings"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/redis"
	"github.com/swarnika/swarnika-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
	State   *string
	Pincode *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register creates an account. If a guest account already exists for the
// email (auto-created at checkout), registration claims it by setting the
// password instead of failing on the unique constraint.
func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		if !existing.IsGuest() {
			return nil, nil, ErrEmailTaken
		}
		existing.Name = input.Name
		existing.PasswordHash = hash
		if input.Phone != "" {
			existing.Phone = input.Phone
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, nil, err
		}
		logger.Info("Guest account claimed via registration", logger.Fields{
			"user_id": existing.ID,
		})
		return s.issueTokens(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	logger.Info("User registered", logger.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return s.issueTokens(user)
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.IsGuest() {
		return nil, nil, ErrInvalidCredentials
	}
	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: bad password", logger.Fields{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*model.User, *util.TokenPair, error) {
	pair, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	pair, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry, s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout blacklists the presented access token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	if redis.GetClient() == nil {
		return nil
	}
	return redis.BlacklistToken(ctx, token, s.jwtCfg.AccessTokenExpiry)
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.City != nil {
		user.City = *update.City
	}
	if update.State != nil {
		user.State = *update.State
	}
	if update.Pincode != nil {
		user.Pincode = *update.Pincode
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
