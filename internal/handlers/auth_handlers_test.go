package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hjarnor/hjarnor/internal/models"
)

func TestRegisterBrain(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":                  "Ada",
		"password":              "p@ss1234",
		"password_confirmation": "p@ss1234",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/registerbrain", payload, nil)
	require.NoError(t, env.A.RegisterBrain(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var token string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	claims, ok := env.Tokens.Verify(token)
	require.True(t, ok)
	require.Equal(t, "Ada", claims.Brainname)

	var brain models.Brain
	require.NoError(t, env.DB.Where("brainname = ?", "Ada").First(&brain).Error)
	require.Equal(t, brain.ID.String(), claims.BrainID)
	require.NotEqual(t, "p@ss1234", brain.PasswordHash)
	require.NotEmpty(t, brain.Birthdate)
}

func TestRegisterBrainRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":                  "Ada",
		"password":              "p@ss1234",
		"password_confirmation": "p@ss1234",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/registerbrain", payload, nil)
	require.NoError(t, env.A.RegisterBrain(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	_, cAgain := env.doJSONRequest(http.MethodPost, "/api/registerbrain", payload, nil)
	requireHTTPError(t, env.A.RegisterBrain(cAgain), http.StatusBadRequest)

	var count int64
	require.NoError(t, env.DB.Model(&models.Brain{}).Where("brainname = ?", "Ada").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegisterBrainValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"name": "", "password": "p@ss1234", "password_confirmation": "p@ss1234"},
		{"name": "Ada", "password": "", "password_confirmation": ""},
		{"name": "Ada", "password": "p@ss1234", "password_confirmation": "different"},
	}
	for _, payload := range cases {
		_, c := env.doJSONRequest(http.MethodPost, "/api/registerbrain", payload, nil)
		requireHTTPError(t, env.A.RegisterBrain(c), http.StatusBadRequest)
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.Brain{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestLoginAsBrain(t *testing.T) {
	env := newTestEnv(t)
	brain := env.seedBrain("Ada", "p@ss1234")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/loginasbrain",
		map[string]string{"name": "Ada", "password": "p@ss1234"}, nil)
	require.NoError(t, env.A.LoginAsBrain(c))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var token string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	claims, ok := env.Tokens.Verify(token)
	require.True(t, ok)
	require.Equal(t, brain.ID.String(), claims.Subject)
	require.Equal(t, "Ada", claims.Brainname)
}

func TestLoginAsBrainRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedBrain("Ada", "p@ss1234")

	_, c := env.doJSONRequest(http.MethodPost, "/api/loginasbrain",
		map[string]string{"name": "Ada", "password": "wrong"}, nil)
	requireHTTPError(t, env.A.LoginAsBrain(c), http.StatusUnauthorized)
}

func TestLoginAsBrainRejectsUnknownBrain(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/loginasbrain",
		map[string]string{"name": "Nobody", "password": "p@ss1234"}, nil)
	requireHTTPError(t, env.A.LoginAsBrain(c), http.StatusUnauthorized)
}
