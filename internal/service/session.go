package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const tokenTypeBearer = "bearer"

// SessionService owns registration, login and the refresh token lifecycle
type SessionService struct {
	tx         *repository.Transactor
	repoUser   *repository.UserRepository
	repoRole   *repository.RoleRepository
	repoToken  *repository.RefreshTokenRepository
	jwtService *JWTService
	now        func() time.Time
}

func NewSessionService(
	tx *repository.Transactor,
	repoUser *repository.UserRepository,
	repoRole *repository.RoleRepository,
	repoToken *repository.RefreshTokenRepository,
	jwtService *JWTService,
) *SessionService {
	return &SessionService{
		tx:         tx,
		repoUser:   repoUser,
		repoRole:   repoRole,
		repoToken:  repoToken,
		jwtService: jwtService,
		now:        time.Now,
	}
}

// Register creates a user holding the default role
func (s *SessionService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	logger.InfoWithContext(ctx, "Registering user").
		String("email", email).
		String("username", username).
		Log()

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	var userID uuid.UUID
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		users := s.repoUser.WithTx(tx)

		exists, err := users.ExistsByEmailOrUsername(ctx, email, username)
		if err != nil {
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}
		if exists {
			return apperrors.ErrUserExists
		}

		role, err := s.repoRole.WithTx(tx).GetByName(ctx, model.RoleUser)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDefaultRoleMissing
		}
		if err != nil {
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}

		user := &model.User{
			Username:     username,
			Email:        email,
			PasswordHash: &hash,
			IsActive:     true,
			Roles:        []model.Role{*role},
		}
		if err := users.Create(ctx, user); err != nil {
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Registration rejected").
			String("email", email).
			Err(err).
			Log()
		return nil, err
	}

	user, err := s.repoUser.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		String("user_id", user.ID.String()).
		Log()

	return user, nil
}

// Login verifies credentials and issues a token pair. Every older refresh
// token of the user is revoked in the same transaction.
func (s *SessionService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	email = strings.ToLower(strings.TrimSpace(email))

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", email).
		Log()

	user, err := s.repoUser.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.LogAuth("", "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		logger.LogAuth(user.ID.String(), "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.LogAuth(user.ID.String(), "login", false)
		return nil, apperrors.ErrInactiveUser
	}

	var pair *dto.TokenResponse
	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		pair, err = s.issue(ctx, s.repoToken.WithTx(tx), user.ID, true)
		return err
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue tokens").
			String("user_id", user.ID.String()).
			Err(err).
			Log()
		return nil, err
	}

	logger.LogAuth(user.ID.String(), "login", true)
	logger.InfoWithContext(ctx, "User logged in successfully").
		String("user_id", user.ID.String()).
		Log()

	return pair, nil
}

// Refresh rotates a refresh token. The presented token is revoked even when
// its user no longer exists.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Refresh")

	if refreshToken == "" {
		return nil, apperrors.ErrNoRefreshToken
	}

	var (
		pair        *dto.TokenResponse
		userMissing bool
	)
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		tokens := s.repoToken.WithTx(tx)

		stored, err := tokens.GetByToken(ctx, refreshToken)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidRefreshToken
		}
		if err != nil {
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}
		if !stored.Usable(s.now()) {
			return apperrors.ErrInvalidRefreshToken
		}

		revoked, err := tokens.Revoke(ctx, stored.ID)
		if err != nil {
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}
		if !revoked {
			// lost a race against a concurrent refresh or logout
			return apperrors.ErrInvalidRefreshToken
		}

		if _, err := s.repoUser.WithTx(tx).GetByID(ctx, stored.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				userMissing = true
				return nil
			}
			return apperrors.WrapError(apperrors.ErrStorage, err)
		}

		pair, err = s.issue(ctx, tokens, stored.UserID, false)
		return err
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh rejected").
			Err(err).
			Log()
		return nil, err
	}
	if userMissing {
		return nil, apperrors.ErrUserNotFound
	}

	logger.InfoWithContext(ctx, "Refresh token rotated").Log()
	return pair, nil
}

// Logout revokes one refresh token
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "Logout")

	if refreshToken == "" {
		return apperrors.ErrNoRefreshToken
	}

	stored, err := s.repoToken.GetByToken(ctx, refreshToken)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrRefreshTokenNotFound
	}
	if err != nil {
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}

	revoked, err := s.repoToken.Revoke(ctx, stored.ID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}
	if !revoked {
		logger.WarnWithContext(ctx, "Logout with an already revoked token").
			String("user_id", stored.UserID.String()).
			Log()
		return apperrors.ErrInvalidRefreshToken
	}

	logger.LogAuth(stored.UserID.String(), "logout", true)
	return nil
}

// issue stores a new refresh token and signs an access token for userID
func (s *SessionService) issue(ctx context.Context, tokens *repository.RefreshTokenRepository, userID uuid.UUID, revokeOld bool) (*dto.TokenResponse, error) {
	if revokeOld {
		if _, err := tokens.RevokeAllForUser(ctx, userID); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrStorage, err)
		}
	}

	refresh, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	record := &model.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		ExpiresAt: s.jwtService.RefreshExpiry(s.now()),
	}
	if err := tokens.Create(ctx, record); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	access, err := s.jwtService.GenerateAccessToken(userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
	}, nil
}
