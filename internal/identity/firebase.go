package identity

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/quizzy-api/internal/config"
)

const (
	defaultAccountsEndpoint = "https://identitytoolkit.googleapis.com/v1"
	defaultJWKSEndpoint     = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	securetokenIssuerPrefix = "https://securetoken.google.com/"
)

// FirebaseVerifier implements Verifier against the Firebase Auth REST API.
// Account operations go through the Identity Toolkit endpoint; ID tokens are
// verified locally against the securetoken JWKS.
type FirebaseVerifier struct {
	cfg        config.FirebaseConfig
	httpClient *http.Client

	jwksMu     sync.RWMutex
	jwksKeys   map[string]*rsa.PublicKey
	jwksExpiry time.Time
}

// NewFirebaseVerifier creates a verifier client. The HTTP client timeout
// bounds every upstream round-trip so a hung verifier surfaces as
// ErrUnreachable instead of an indefinite hang.
func NewFirebaseVerifier(cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("firebase api key is required")
	}
	if cfg.AccountsEndpoint == "" {
		cfg.AccountsEndpoint = defaultAccountsEndpoint
	}
	if cfg.JWKSEndpoint == "" {
		cfg.JWKSEndpoint = defaultJWKSEndpoint
	}
	return &FirebaseVerifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type firebaseErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAccount provisions a Firebase account via accounts:signUp and then
// attaches the display name via accounts:update. The returned IDToken is kept
// for the caller's compensating delete.
func (v *FirebaseVerifier) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	signUpReq := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var signUpResp struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
		IDToken string `json:"idToken"`
	}
	if err := v.post(ctx, "accounts:signUp", signUpReq, &signUpResp); err != nil {
		return nil, err
	}
	if signUpResp.LocalID == "" || signUpResp.IDToken == "" {
		return nil, fmt.Errorf("%w: signUp response missing localId or idToken", ErrUnreachable)
	}

	account := &Account{
		SubjectID: signUpResp.LocalID,
		Email:     signUpResp.Email,
		IDToken:   signUpResp.IDToken,
	}

	if strings.TrimSpace(displayName) != "" {
		updateReq := map[string]interface{}{
			"idToken":           account.IDToken,
			"displayName":       displayName,
			"returnSecureToken": false,
		}
		if err := v.post(ctx, "accounts:update", updateReq, &struct{}{}); err != nil {
			// Display name is cosmetic; the account exists and is usable.
			log.Printf("[FirebaseVerifier] Failed to set display name for uid=%s: %v", account.SubjectID, err)
		}
	}

	return account, nil
}

// DeleteAccount issues accounts:delete with the creation-time ID token.
func (v *FirebaseVerifier) DeleteAccount(ctx context.Context, account *Account) error {
	if account == nil || account.IDToken == "" {
		return fmt.Errorf("%w: no account credential to delete with", ErrUnreachable)
	}
	return v.post(ctx, "accounts:delete", map[string]interface{}{"idToken": account.IDToken}, &struct{}{})
}

func (v *FirebaseVerifier) post(ctx context.Context, method string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", strings.TrimRight(v.cfg.AccountsEndpoint, "/"), method, v.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", ErrUnreachable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		var fbErr firebaseErrorResponse
		if json.Unmarshal(raw, &fbErr) == nil && strings.HasPrefix(fbErr.Error.Message, "EMAIL_EXISTS") {
			return fmt.Errorf("%w: %s", ErrEmailExists, fbErr.Error.Message)
		}
		return fmt.Errorf("%w: %s status=%d body=%s", ErrUnreachable, method, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %v", ErrUnreachable, method, err)
	}
	return nil
}

type firebaseIDTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// VerifyToken validates a Firebase ID token: RS256 signature against the
// securetoken JWKS, issuer bound to the project, audience equal to the
// project id, and expiry. Fails closed with ErrInvalidToken.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, idToken string) (*Claims, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty id token", ErrInvalidToken)
	}

	claims := &firebaseIDTokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	token, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrInvalidToken)
		}
		return v.getPublicKey(ctx, strings.TrimSpace(kid))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.Issuer != securetokenIssuerPrefix+v.cfg.ProjectID {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidToken)
	}
	audMatched := false
	for _, aud := range claims.Audience {
		if aud == v.cfg.ProjectID {
			audMatched = true
			break
		}
	}
	if !audMatched {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}

	return &Claims{
		SubjectID: strings.TrimSpace(claims.Subject),
		Email:     strings.TrimSpace(claims.Email),
		Name:      strings.TrimSpace(claims.Name),
	}, nil
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (v *FirebaseVerifier) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := time.Now()
	v.jwksMu.RLock()
	if key, ok := v.jwksKeys[kid]; ok && now.Before(v.jwksExpiry) {
		v.jwksMu.RUnlock()
		return key, nil
	}
	v.jwksMu.RUnlock()

	if err := v.refreshJWKS(ctx); err != nil {
		return nil, err
	}

	v.jwksMu.RLock()
	defer v.jwksMu.RUnlock()
	key, ok := v.jwksKeys[kid]
	if !ok || key == nil {
		return nil, fmt.Errorf("%w: jwks key not found", ErrInvalidToken)
	}
	return key, nil
}

func (v *FirebaseVerifier) refreshJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.JWKSEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create jwks request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch jwks: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: jwks status=%d body=%s", ErrInvalidToken, resp.StatusCode, string(body))
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode jwks response: %w", err)
	}
	if len(set.Keys) == 0 {
		return fmt.Errorf("%w: empty jwks response", ErrInvalidToken)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if strings.TrimSpace(k.Kid) == "" || k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no usable rsa keys in jwks", ErrInvalidToken)
	}

	ttl := parseJWKSMaxAge(resp.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = time.Hour
	}

	v.jwksMu.Lock()
	v.jwksKeys = keys
	v.jwksExpiry = time.Now().Add(ttl)
	v.jwksMu.Unlock()
	return nil
}

func parseRSAPublicKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	eInt := 0
	for _, b := range eBytes {
		eInt = eInt<<8 + int(b)
	}
	if n.Sign() <= 0 || eInt <= 0 {
		return nil, fmt.Errorf("invalid rsa jwk")
	}

	return &rsa.PublicKey{N: n, E: eInt}, nil
}

func parseJWKSMaxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), "max-age=") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(part), "max-age="))
		seconds, err := time.ParseDuration(value + "s")
		if err != nil {
			return 0
		}
		if seconds < time.Minute {
			return time.Minute
		}
		return seconds
	}
	return 0
}
