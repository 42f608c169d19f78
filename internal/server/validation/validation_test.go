package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func TestValidateRegistration_OK(t *testing.T) {
	v := newValidator(t)

	res := v.ValidateRegistration(map[string]any{"username": "alice", "email": "a@x.com", "password": "p@ss1"})
	assert.True(t, res.OK, res.Message)
	assert.Empty(t, res.Message)
}

func TestValidateRegistration_Failures(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"missing email", map[string]any{"username": "alice", "password": "p@ss1"}, "missing property"},
		{"short username", map[string]any{"username": "al", "email": "a@x.com", "password": "p@ss1"}, "username: minLength"},
		{"bad username chars", map[string]any{"username": "al ice", "email": "a@x.com", "password": "p@ss1"}, "username:"},
		{"bad email", map[string]any{"username": "alice", "email": "not-an-email", "password": "p@ss1"}, "email:"},
		{"short password", map[string]any{"username": "alice", "email": "a@x.com", "password": "p"}, "password: minLength"},
		{"long password", map[string]any{"username": "alice", "email": "a@x.com", "password": strings.Repeat("p", 65)}, "password: maxLength"},
		{"multi-byte password over 72 bytes", map[string]any{"username": "alice", "email": "a@x.com", "password": strings.Repeat("é", 64)}, "password: got 128 bytes, want at most 72"},
		{"wrong type", map[string]any{"username": 42, "email": "a@x.com", "password": "p@ss1"}, "username:"},
		{"extra field", map[string]any{"username": "alice", "email": "a@x.com", "password": "p@ss1", "role": "admin"}, "additional properties"},
		{"not an object", []string{"alice"}, "payload:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateRegistration(tt.payload)
			assert.False(t, res.OK)
			assert.Contains(t, res.Message, tt.want)
		})
	}
}

func TestValidateRegistration_PasswordAtByteLimit(t *testing.T) {
	v := newValidator(t)

	res := v.ValidateRegistration(map[string]any{"username": "alice", "email": "a@x.com", "password": strings.Repeat("é", 36)})
	assert.True(t, res.OK, res.Message)
}

func TestValidateLogin(t *testing.T) {
	v := newValidator(t)

	assert.True(t, v.ValidateLogin(map[string]any{"username": "alice", "password": "p@ss1"}).OK)

	res := v.ValidateLogin(map[string]any{"username": "alice"})
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "missing property 'password'")

	res = v.ValidateLogin(map[string]any{"username": "alice", "password": "p@ss1", "email": "a@x.com"})
	assert.False(t, res.OK, "login takes no email")
}

func TestValidate_RawAndStructPayloads(t *testing.T) {
	v := newValidator(t)

	assert.True(t, v.ValidateLogin(json.RawMessage(`{"username":"alice","password":"p@ss1"}`)).OK)

	res := v.ValidateLogin(json.RawMessage(`{"username":`))
	assert.False(t, res.OK)
	assert.Equal(t, "payload is not valid JSON", res.Message)

	type login struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	assert.True(t, v.ValidateLogin(login{Username: "alice", Password: "p@ss1"}).OK)
	assert.False(t, v.ValidateLogin(login{Username: "alice"}).OK)
}
