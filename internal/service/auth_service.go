package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aptitude-trainer/internal/config"
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/dto"
	"aptitude-trainer/internal/logger"
	"aptitude-trainer/internal/repository"
	"aptitude-trainer/internal/repository/models"
	"aptitude-trainer/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	minPasswordLength = 8
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, username, password string) (*dto.TokenPairResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo  repository.UserRepository
	denylist  domain.TokenDenylist // nil when Redis is not configured
	appConfig *config.Config
}

// NewAuthService creates a new instance of AuthService. denylist may be nil,
// in which case logout revokes nothing server-side.
func NewAuthService(userRepo repository.UserRepository, denylist domain.TokenDenylist, appConfig *config.Config) (AuthService, error) {
	if appConfig.JWT.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		denylist:  denylist,
		appConfig: appConfig,
	}, nil
}

// Register validates the registration form, checks uniqueness against the
// configured user store, and creates the account with a bcrypt password hash.
func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var problems []string
	if req.Username == "" {
		problems = append(problems, "username is required")
	}
	if req.Email == "" {
		problems = append(problems, "email is required")
	} else if !strings.Contains(req.Email, "@") {
		problems = append(problems, "email address is invalid")
	}
	if req.Password == "" {
		problems = append(problems, "password is required")
	} else if len(req.Password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	} else if req.Password != req.ConfirmPassword {
		problems = append(problems, "passwords do not match")
	}
	if len(problems) > 0 {
		return nil, domain.NewInvalidInputError(strings.Join(problems, "; "))
	}

	// Uniqueness checks run against the one configured store; storage errors
	// propagate rather than being read as "available".
	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username availability: %w", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateUserError("username is already taken")
	}
	existing, err = s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateUserError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           util.NewULID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Get().Info("User registered",
		zap.String("userID", user.ID), zap.String("username", user.Username))

	return &dto.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewInvalidCredentialsError()
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID), zap.String("username", user.Username))
	return pair, nil
}

// RefreshToken exchanges a valid refresh token for a new pair, revoking the
// old refresh token when a denylist is configured.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	claims, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(claims.UserID)
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issueTokenPair(user)
}

// Logout revokes the refresh token server-side when a denylist is configured.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	logger.Get().Info("User logged out", zap.String("userID", claims.UserID))
	return nil
}

func (s *authServiceImpl) revoke(ctx context.Context, claims *dto.AuthClaims) error {
	if s.denylist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.denylist.Deny(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *authServiceImpl) validateRefreshToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims, err := s.ValidateJWT(ctx, tokenString)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid refresh token")
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("not a refresh token")
	}
	if s.denylist != nil && claims.ID != "" {
		denied, err := s.denylist.IsDenied(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if denied {
			return nil, domain.NewUnauthorizedError("refresh token has been revoked")
		}
	}
	return claims, nil
}

func (s *authServiceImpl) issueTokenPair(user *models.User) (*dto.TokenPairResponse, error) {
	accessToken, err := s.createJWT(user, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.createJWT(user, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return &dto.TokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authServiceImpl) createJWT(user *models.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

// ValidateJWT parses and verifies a token, returning its claims.
func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("JWT token expired", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
