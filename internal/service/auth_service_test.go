package service

import (
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	cfg.JWT = config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: 72 * time.Hour}
	users := repository.NewUserRepository(db)
	return NewAuthService(users, cfg), users
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users := newAuthService(t)

	user := &model.User{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "plaintext",
		Role:     model.Instructor,
	}
	require.NoError(t, svc.Register(user))

	stored, err := users.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext", stored.Password)

	err = svc.Register(&model.User{Name: "Ada Again", Email: "ada@example.com", Password: "x"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "correct horse", Role: model.Instructor}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("ada@example.com", "correct horse")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Instructor, claims.Role)

	_, err = svc.Login("ada@example.com", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@example.com", "correct horse")
	assert.Error(t, err)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, users := newAuthService(t)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "pw", Role: model.Student}
	require.NoError(t, svc.Register(user))
	require.NoError(t, users.SetDisabled(user.ID, true))

	_, err := svc.Login("ada@example.com", "pw")
	assert.Error(t, err)
}
