package identity

import (
	"context"
	"errors"
)

// Verifier outcomes form a closed set so callers never inspect free-text
// error messages from the upstream service.
var (
	// ErrEmailExists means the verifier already holds an account for the email.
	ErrEmailExists = errors.New("email_already_exists")

	// ErrInvalidToken covers malformed, expired and badly signed identity tokens.
	ErrInvalidToken = errors.New("invalid_identity_token")

	// ErrUnreachable covers network failures, timeouts and unexpected upstream
	// responses.
	ErrUnreachable = errors.New("identity_verifier_unreachable")
)

// Account is a verifier-side account created through signup. IDToken is the
// credential returned at creation time; it is held only long enough to issue
// a compensating delete if local provisioning fails.
type Account struct {
	SubjectID string
	Email     string
	IDToken   string
}

// Claims are the verified fields of an external identity token.
type Claims struct {
	SubjectID string
	Email     string
	Name      string
}

// Verifier is the external identity provider. It owns credential
// verification entirely; the local store never originates identity on its own.
type Verifier interface {
	// CreateAccount provisions a verifier-side account. Fails with
	// ErrEmailExists when the email is taken upstream, ErrUnreachable otherwise.
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)

	// DeleteAccount removes an account created by CreateAccount. Used as the
	// saga compensation when local provisioning fails after upstream success.
	DeleteAccount(ctx context.Context, account *Account) error

	// VerifyToken validates a bearer-supplied identity token and returns its
	// claims. Fails closed: any verification problem is ErrInvalidToken.
	VerifyToken(ctx context.Context, idToken string) (*Claims, error)
}
