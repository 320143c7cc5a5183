package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	_, err := NewUser("", None[string](), None[string](), None[bool]())
	requireValidationError(t, err, "username", ReasonRequired)

	u, err := NewUser("alice", Some("Alice Doe"), None[string](), None[bool]())
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", u.FullName.OrElse(""))
	assert.False(t, u.Email.IsSet())
	assert.True(t, u.Active(), "absent disabled flag means active")

	u.Disabled = Some(true)
	assert.False(t, u.Active())
}

func TestNewUserInDB(t *testing.T) {
	u, err := NewUser("alice", None[string](), None[string](), Some(false))
	require.NoError(t, err)

	_, err = NewUserInDB(u, "")
	requireValidationError(t, err, "hashed_password", ReasonRequired)

	stored, err := NewUserInDB(u, "$2a$10$hash")
	require.NoError(t, err)

	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","full_name":null,"email":null,"disabled":false}`, string(raw))
}

func TestNewToken(t *testing.T) {
	_, err := NewToken("", TokenTypeBearer)
	requireValidationError(t, err, "access_token", ReasonRequired)

	_, err = NewToken("abc", "")
	requireValidationError(t, err, "token_type", ReasonRequired)

	tok, err := NewToken("abc", TokenTypeBearer)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken())

	raw, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"abc","token_type":"bearer"}`, string(raw))
}

func TestTokenOwner(t *testing.T) {
	owner := NewTokenOwner(None[string]())
	_, ok := owner.Username().Get()
	assert.False(t, ok)

	raw, err := json.Marshal(NewTokenOwner(Some("alice")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice"}`, string(raw))
}

func TestOptional_JSON(t *testing.T) {
	var o Optional[string]
	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.False(t, o.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`"x"`), &o))
	assert.Equal(t, "x", o.OrElse(""))
	assert.Equal(t, "x", *o.Ptr())

	assert.Nil(t, None[int]().Ptr())
	assert.Equal(t, 3, FromPtr(func() *int { v := 3; return &v }()).OrElse(0))
}
