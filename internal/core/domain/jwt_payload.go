package domain

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is used by UpdateExpDate.
const DefaultTokenLifetime = 15 * time.Minute

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// JWTPayload holds the claims of an access token before signing. Exp starts
// absent and is set by UpdateExpDate; Sub never changes after construction.
//
// The payload does not verify anything about itself. It satisfies jwt.Claims
// so a signer can encode it as-is.
type JWTPayload struct {
	Sub string
	Exp Optional[time.Time]
}

var _ jwt.Claims = (*JWTPayload)(nil)

func NewJWTPayload(sub string) (*JWTPayload, error) {
	if sub == "" {
		return nil, newValidationError("sub", ReasonRequired)
	}
	return &JWTPayload{Sub: sub}, nil
}

// UpdateExpDate sets Exp to now + DefaultTokenLifetime.
func (p *JWTPayload) UpdateExpDate() {
	p.UpdateExpDateAfter(DefaultTokenLifetime)
}

// UpdateExpDateAfter sets Exp to the current UTC time plus lifetime. Each call
// recomputes from the current time; earlier values are overwritten.
func (p *JWTPayload) UpdateExpDateAfter(lifetime time.Duration) {
	p.Exp = Some(now().Add(lifetime))
}

func (p *JWTPayload) GetExpirationTime() (*jwt.NumericDate, error) {
	exp, ok := p.Exp.Get()
	if !ok {
		return nil, nil
	}
	return jwt.NewNumericDate(exp), nil
}

func (p *JWTPayload) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (p *JWTPayload) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (p *JWTPayload) GetIssuer() (string, error)              { return "", nil }
func (p *JWTPayload) GetSubject() (string, error)             { return p.Sub, nil }
func (p *JWTPayload) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

type jwtPayloadWire struct {
	Sub string           `json:"sub"`
	Exp *jwt.NumericDate `json:"exp,omitempty"`
}

func (p *JWTPayload) MarshalJSON() ([]byte, error) {
	w := jwtPayloadWire{Sub: p.Sub}
	if exp, ok := p.Exp.Get(); ok {
		w.Exp = jwt.NewNumericDate(exp)
	}
	return json.Marshal(w)
}

func (p *JWTPayload) UnmarshalJSON(data []byte) error {
	var w jwtPayloadWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Sub = w.Sub
	p.Exp = None[time.Time]()
	if w.Exp != nil {
		p.Exp = Some(w.Exp.Time.UTC())
	}
	return nil
}
