package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/emeka/petrocms/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerBody = `{"name":"Chinedu Eze","email":"chinedu@example.com","password":"s3cret-enough"}`

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created types.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotNil(t, created.Admin)
	assert.Equal(t, "chinedu@example.com", created.Admin.Email)
	assert.NotEmpty(t, created.Token)

	// Token from registration is immediately usable
	claims, err := s.jwtService.ValidateToken(created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.Admin.ID, claims.GetAdminID())

	rr = doRequest(s, http.MethodPost, "/auth/login",
		`{"email":"chinedu@example.com","password":"s3cret-enough"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var loggedIn types.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loggedIn))
	assert.Equal(t, created.Admin.ID, loggedIn.Admin.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(s, http.MethodPost, "/auth/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodPost, "/auth/register",
		`{"name":"Chinedu Eze","email":"chinedu@example.com","password":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(s, http.MethodPost, "/auth/login",
		`{"email":"chinedu@example.com","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	// Generic message regardless of which part was wrong
	assert.Contains(t, rr.Body.String(), "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodPost, "/auth/login",
		`{"email":"nobody@example.com","password":"whatever-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email or password")
}

func TestUpdatePassword(t *testing.T) {
	s, mock := newTestServer(t)
	_, token := registeredAdmin(t, s, mock)

	rr := doRequest(s, http.MethodPut, "/auth/password",
		`{"current_password":"correct-horse-battery","new_password":"even-more-secret"}`, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(s, http.MethodPost, "/auth/login",
		`{"email":"ngozi@example.com","password":"even-more-secret"}`, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	s, mock := newTestServer(t)
	_, token := registeredAdmin(t, s, mock)

	rr := doRequest(s, http.MethodPut, "/auth/password",
		`{"current_password":"not-the-password","new_password":"even-more-secret"}`, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdatePassword_RequiresToken(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodPut, "/auth/password",
		`{"current_password":"a","new_password":"even-more-secret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfile_GetAndPatch(t *testing.T) {
	s, mock := newTestServer(t)
	adminID, token := registeredAdmin(t, s, mock)

	rr := doRequest(s, http.MethodGet, "/profile", "", token)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile types.Admin
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, adminID, profile.ID)
	assert.Equal(t, "Ngozi Ade", profile.Name)

	rr = doRequest(s, http.MethodPatch, "/profile", `{"phone":"+2347011112222"}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "+2347011112222", profile.Phone)
	assert.Equal(t, "Ngozi Ade", profile.Name)

	// The PATCH leaves an audit trail entry
	require.Len(t, mock.audits, 1)
	assert.Equal(t, "admin_profile", mock.audits[0].Entity)
}

func TestProfile_PatchNoFields(t *testing.T) {
	s, mock := newTestServer(t)
	_, token := registeredAdmin(t, s, mock)

	rr := doRequest(s, http.MethodPatch, "/profile", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
