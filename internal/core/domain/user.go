package domain

import "encoding/json"

// TokenTypeBearer is the token_type returned with every access token.
const TokenTypeBearer = "bearer"

// User is the public view of an API client.
type User struct {
	Username string           `json:"username" validate:"required"`
	FullName Optional[string] `json:"full_name"`
	Email    Optional[string] `json:"email"`
	Disabled Optional[bool]   `json:"disabled"`
}

func NewUser(username string, fullName, email Optional[string], disabled Optional[bool]) (User, error) {
	u := User{Username: username, FullName: fullName, Email: email, Disabled: disabled}
	if err := CheckPresence(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Active reports whether the user may authenticate. An absent disabled flag
// counts as enabled.
func (u User) Active() bool {
	return !u.Disabled.OrElse(false)
}

// UserInDB is the stored form of a user. The hash never leaves the identity
// store boundary, so it is excluded from JSON.
type UserInDB struct {
	User
	HashedPassword string `json:"-"`
}

func NewUserInDB(u User, hashedPassword string) (UserInDB, error) {
	if err := CheckPresence(u); err != nil {
		return UserInDB{}, err
	}
	if hashedPassword == "" {
		return UserInDB{}, newValidationError("hashed_password", ReasonRequired)
	}
	return UserInDB{User: u, HashedPassword: hashedPassword}, nil
}

type tokenFields struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type" validate:"required"`
}

// Token is the response to a successful login.
type Token struct {
	f tokenFields
}

func NewToken(accessToken, tokenType string) (Token, error) {
	f := tokenFields{AccessToken: accessToken, TokenType: tokenType}
	if err := CheckPresence(f); err != nil {
		return Token{}, err
	}
	return Token{f: f}, nil
}

func (t Token) AccessToken() string { return t.f.AccessToken }
func (t Token) TokenType() string   { return t.f.TokenType }

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.f)
}

// TokenOwner is the username claimed by a decoded token.
type TokenOwner struct {
	username Optional[string]
}

func NewTokenOwner(username Optional[string]) TokenOwner {
	return TokenOwner{username: username}
}

func (o TokenOwner) Username() Optional[string] { return o.username }

func (o TokenOwner) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Username Optional[string] `json:"username"`
	}{o.username})
}
