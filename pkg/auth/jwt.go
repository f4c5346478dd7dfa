package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultSessionTTL is the canonical lifetime of a session token. Every
// issuance path uses it unless a caller passes an explicit TTL.
const DefaultSessionTTL = 60 * time.Minute

// Verification outcomes. Handlers map these to the unauthorized responses.
var (
	// ErrTokenMalformed means the token could not be parsed at all.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenInvalid covers bad signatures and any other validation failure.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrMissingSubject means the token verified but carries no user identity.
	ErrMissingSubject = errors.New("token has no subject claim")
)

// SessionClaims is the full claim set of a session token. The token is the
// entire session state; nothing is persisted server-side.
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies session tokens under a process-wide HS256
// secret. The secret is read-only after construction.
type JWTService struct {
	secret     []byte
	defaultTTL time.Duration
	issuer     string
}

// NewJWTService creates the session token service. The secret is required;
// the process must not start without one.
func NewJWTService(secret string, defaultTTL time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required for JWTService")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultSessionTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		issuer:     "quizzy-api",
	}, nil
}

// Issue mints a signed token binding the local user identity with expiry
// now+ttl. A non-positive ttl falls back to the canonical default.
func (s *JWTService) Issue(userID uint, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("cannot issue token for zero user id")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the claims. Outcomes are
// the sentinel errors above; callers never see raw jwt library errors.
func (s *JWTService) Verify(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			default:
				return nil, ErrTokenInvalid
			}
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == 0 {
		return nil, ErrMissingSubject
	}

	return claims, nil
}
