package service

import (
	"testing"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(newTestDB(t)))
}

func TestCreateProfile(t *testing.T) {
	s := newUserService(t)

	profile, err := s.CreateProfile("user-1", CreateProfileRequest{
		Name:  "  Asha  ",
		Email: "Asha@Example.com",
		Skills: []model.Skill{
			{Name: "Go", Level: 80},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.ID) // 档案ID即身份ID
	assert.Equal(t, "Asha", profile.Name)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, "Student", profile.Role)
	assert.False(t, profile.JoinDate.IsZero())
}

func TestCreateProfileDuplicate(t *testing.T) {
	s := newUserService(t)

	_, err := s.CreateProfile("user-1", CreateProfileRequest{Name: "Asha"})
	require.NoError(t, err)

	_, err = s.CreateProfile("user-1", CreateProfileRequest{Name: "Asha again"})
	assert.True(t, util.IsConflict(err))
}

func TestCreateProfileValidation(t *testing.T) {
	s := newUserService(t)

	_, err := s.CreateProfile("user-1", CreateProfileRequest{Name: "   "})
	assert.True(t, util.IsValidation(err))
}

func TestUpdateProfile(t *testing.T) {
	s := newUserService(t)

	_, err := s.CreateProfile("user-1", CreateProfileRequest{Name: "Asha"})
	require.NoError(t, err)

	location := "Bengaluru"
	updated, err := s.UpdateProfile("user-1", UpdateProfileRequest{Location: &location})
	require.NoError(t, err)

	assert.Equal(t, "Bengaluru", updated.Location)
	assert.Equal(t, "Asha", updated.Name) // 未出现的字段不动
}

func TestUpdateProfileNotFound(t *testing.T) {
	s := newUserService(t)

	name := "ghost"
	_, err := s.UpdateProfile("missing", UpdateProfileRequest{Name: &name})
	assert.True(t, util.IsNotFound(err))

	_, err = s.GetProfile("missing")
	assert.True(t, util.IsNotFound(err))
}
