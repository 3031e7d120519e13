package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAdminRequest_Validate(t *testing.T) {
	valid := CreateAdminRequest{
		Name:     "Chinedu Eze",
		Email:    "chinedu@example.com",
		Password: "s3cret-enough",
	}
	assert.NoError(t, valid.Validate())

	shortPassword := valid
	shortPassword.Password = "short"
	assert.Error(t, shortPassword.Validate())

	badEmail := valid
	badEmail.Email = "chinedu"
	assert.Error(t, badEmail.Validate())
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "chinedu@example.com", Password: "s3cret-enough"}
	assert.NoError(t, valid.Validate())

	missing := LoginRequest{Email: "chinedu@example.com"}
	assert.Error(t, missing.Validate())
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	valid := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}
	assert.NoError(t, valid.Validate())

	weak := UpdatePasswordRequest{CurrentPassword: "old-password", NewPassword: "weak"}
	assert.Error(t, weak.Validate())
}
