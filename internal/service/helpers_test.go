package service

import (
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/Payphone-Digital/leadgen/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.Seed(db, database.DefaultAdmin{}))
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return db
}

type testServices struct {
	db       *gorm.DB
	jwt      *JWTService
	sessions *SessionService
	authz    *AuthorizationService
	tokens   *repository.RefreshTokenRepository
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	tokens := repository.NewRefreshTokenRepository(db)
	jwtService := NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)

	return testServices{
		db:  db,
		jwt: jwtService,
		sessions: NewSessionService(
			repository.NewTransactor(db),
			users,
			repository.NewRoleRepository(db),
			tokens,
			jwtService,
		),
		authz:  NewAuthorizationService(users),
		tokens: tokens,
	}
}

func registerUser(t *testing.T, s testServices, username string) *model.User {
	t.Helper()
	user, err := s.sessions.Register(t.Context(), &dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// countActiveTokens counts refresh tokens that are neither revoked nor expired
func countActiveTokens(t *testing.T, s testServices, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, time.Now()).
		Count(&count).Error)
	return count
}
