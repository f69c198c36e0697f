package ewaste

import "time"

var _ Session = (*SessionObject)(nil)

// SessionObject is the claims-backed session handed to guarded handlers.
type SessionObject struct {
	UserID   string     `json:"user_id,omitempty"`
	Username string     `json:"username,omitempty"`
	Audience []string   `json:"audience,omitempty"`
	Issuer   string     `json:"issuer,omitempty"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUsername() string {
	return s.Username
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func sessionFromAuthClaims(claims AuthClaims) *SessionObject {
	session := &SessionObject{
		UserID:   claims.Subject(),
		Username: claims.Username(),
	}
	if issued := claims.IssuedAt(); !issued.IsZero() {
		session.IssuedAt = &issued
	}
	if jwtClaims, ok := claims.(*JWTClaims); ok {
		session.Issuer = jwtClaims.RegisteredClaims.Issuer
		session.Audience = jwtClaims.RegisteredClaims.Audience
	}
	return session
}
