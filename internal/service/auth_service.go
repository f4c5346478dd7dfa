package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quizzy-api/internal/domain/entity"
	"github.com/yourusername/quizzy-api/internal/domain/repository"
	"github.com/yourusername/quizzy-api/internal/identity"
	apperrors "github.com/yourusername/quizzy-api/internal/pkg/errors"
	"github.com/yourusername/quizzy-api/pkg/auth"
)

// AuthService reconciles identities between the external verifier and the
// local user store and issues session tokens. The verifier owns credentials;
// the local store owns the user row everything else references.
type AuthService struct {
	userRepo   repository.UserRepository
	verifier   identity.Verifier
	jwtService *auth.JWTService
	sessionTTL time.Duration
}

// NewAuthService creates the auth service and fails on missing dependencies.
func NewAuthService(
	userRepo repository.UserRepository,
	verifier identity.Verifier,
	jwtService *auth.JWTService,
	sessionTTL time.Duration,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if verifier == nil {
		return nil, fmt.Errorf("identity Verifier is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if sessionTTL <= 0 {
		sessionTTL = auth.DefaultSessionTTL
	}
	return &AuthService{
		userRepo:   userRepo,
		verifier:   verifier,
		jwtService: jwtService,
		sessionTTL: sessionTTL,
	}, nil
}

// SignupInput contains everything needed to register a user.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// Signup provisions a user in the verifier and the local store. The local
// duplicate check runs before any external side effect; if the local insert
// fails after the verifier account was created, the account is deleted again
// so no orphaned identity survives.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*entity.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}

	// One query covers both uniqueness rules.
	_, err := s.userRepo.GetByEmailOrUsername(input.Email, input.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email or username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	account, err := s.verifier.CreateAccount(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			return nil, fmt.Errorf("%w: email is already registered with the identity verifier", apperrors.ErrConflict)
		}
		log.Printf("[AuthService] Identity verifier account creation failed for email=%s: %v", input.Email, err)
		return nil, fmt.Errorf("%w: identity verifier account creation failed", apperrors.ErrUpstream)
	}

	// The verifier may canonicalize the email; its confirmed form wins.
	email := normalizeEmail(account.Email)
	if email == "" {
		email = input.Email
	}

	user := &entity.User{
		Username:    input.Username,
		Email:       email,
		FirebaseUID: account.SubjectID,
		Password:    generateRandomHex(32),
	}

	if err := s.userRepo.Create(user); err != nil {
		// Compensate so the verifier holds no account without a local row.
		if delErr := s.verifier.DeleteAccount(ctx, account); delErr != nil {
			log.Printf("[AuthService] ALERT: failed to delete verifier account uid=%s after local insert failure: %v (original error: %v)",
				account.SubjectID, delErr, err)
		} else {
			log.Printf("[AuthService] Rolled back verifier account uid=%s after local insert failure", account.SubjectID)
		}
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Registered user ID=%d username=%s uid=%s", user.ID, user.Username, user.FirebaseUID)
	return user, nil
}

// Login verifies an identity token from the external verifier, finds or
// provisions the matching local user and issues a session token. A verified
// token whose subject has no local row is treated as proof the user exists
// upstream, so the local row is (re)created instead of failing.
func (s *AuthService) Login(ctx context.Context, idToken string) (*entity.User, string, error) {
	claims, err := s.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, identity.ErrUnreachable) {
			return nil, "", fmt.Errorf("%w: identity verifier is unreachable", apperrors.ErrUpstream)
		}
		return nil, "", fmt.Errorf("%w: identity token verification failed", apperrors.ErrUnauthorized)
	}

	email := normalizeEmail(claims.Email)
	if email == "" {
		return nil, "", fmt.Errorf("%w: no email claim in identity token", apperrors.ErrValidation)
	}

	user, err := s.findOrCreateUser(claims.SubjectID, email, claims.Name)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.Issue(user.ID, s.sessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Printf("[AuthService] Logged in user ID=%d uid=%s", user.ID, user.FirebaseUID)
	return user, token, nil
}

// findOrCreateUser resolves a verified subject to a local user row. Lookup
// order is subject id, then email (linking rows created before the verifier
// uid was recorded), then a fresh row.
func (s *AuthService) findOrCreateUser(subjectID, email, displayName string) (*entity.User, error) {
	user, err := s.userRepo.GetByFirebaseUID(subjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by verifier uid: %w", err)
	}

	user, err = s.userRepo.GetByEmail(email)
	if err == nil {
		if user.FirebaseUID == "" {
			if updErr := s.userRepo.UpdateProfile(user.ID, map[string]interface{}{"firebase_uid": subjectID}); updErr != nil {
				return nil, fmt.Errorf("failed to link verifier uid to user ID=%d: %w", user.ID, updErr)
			}
			user.FirebaseUID = subjectID
			log.Printf("[AuthService] Linked verifier uid=%s to existing user ID=%d", subjectID, user.ID)
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	username, err := s.generateUniqueUsername(email, subjectID, displayName)
	if err != nil {
		return nil, err
	}

	user = &entity.User{
		Username:    username,
		Email:       email,
		FirebaseUID: subjectID,
		Password:    generateRandomHex(32),
	}
	if err := s.userRepo.Create(user); err != nil {
		// Concurrent login provisioned the same subject first.
		if errors.Is(err, apperrors.ErrConflict) {
			if existing, getErr := s.userRepo.GetByFirebaseUID(subjectID); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to provision user from identity token: %w", err)
	}

	log.Printf("[AuthService] Provisioned user ID=%d username=%s from verified identity uid=%s", user.ID, username, subjectID)
	return user, nil
}

// VerifySession validates a session token and returns its claims.
func (s *AuthService) VerifySession(token string) (*auth.SessionClaims, error) {
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session token expired", apperrors.ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: invalid session token", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

// GetUserByID returns the local user record.
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateUserProfile updates mutable profile fields.
func (s *AuthService) UpdateUserProfile(userID uint, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err == nil && existing.ID != userID {
		return fmt.Errorf("%w: username is already taken", apperrors.ErrConflict)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check username availability: %w", err)
	}

	return s.userRepo.UpdateProfile(userID, map[string]interface{}{"username": username})
}

// generateUniqueUsername derives a username from the email local part and
// probes suffixed candidates until a free one is found.
func (s *AuthService) generateUniqueUsername(email, subjectID, displayName string) (string, error) {
	base := sanitizeUsername(strings.Split(email, "@")[0])
	if base == "" {
		base = sanitizeUsername(displayName)
	}
	if base == "" {
		base = "user_" + sanitizeUsername(subjectID)
	}
	if len(base) < 3 {
		base = "quizzyuser"
	}
	if len(base) > 42 {
		base = base[:42]
	}

	candidates := []string{base}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s_%d", base, i))
	}

	for _, candidate := range candidates {
		_, err := s.userRepo.GetByUsername(candidate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s_%s", base, generateRandomHex(6)), nil
}

func sanitizeUsername(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	var b strings.Builder
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateRandomHex(byteLen int) string {
	if byteLen <= 0 {
		byteLen = 16
	}
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to generate random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
