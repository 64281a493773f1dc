package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstructorService(t *testing.T) (*InstructorService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	user := seedUser(t, db, model.Instructor)
	return NewInstructorService(repository.NewInstructorRepository(db), repository.NewUserRepository(db)), user
}

func TestGetProfileCreatesOnFirstAccess(t *testing.T) {
	svc, user := newInstructorService(t)

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, profile.DisplayName)

	// A second call returns the same row, not another one.
	again, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestUpdateProfile(t *testing.T) {
	svc, user := newInstructorService(t)

	updated, err := svc.UpdateProfile(user.ID, ProfileRequest{
		DisplayName: "Prof. Ada",
		Headline:    "Teaches Go",
		Bio:         "20 years of concurrency.",
		Website:     "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Prof. Ada", updated.DisplayName)
	assert.Equal(t, "Teaches Go", updated.Headline)

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prof. Ada", profile.DisplayName)
}

func TestUpdateAvatar(t *testing.T) {
	svc, user := newInstructorService(t)

	require.NoError(t, svc.UpdateAvatar(user.ID, "/uploads/avatars/1/a.png"))

	profile, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/1/a.png", profile.AvatarURL)
}
