package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is how long an issued session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

type userRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  string    `json:"pass_hash"`
	Salt      string    `json:"salt"`
	CreatedAt time.Time `json:"created_at"`
}

// Auth is the Redis-backed account and session token service.
type Auth struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewAuth(client *redis.Client, sessionTTL time.Duration) *Auth {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Auth{client: client, sessionTTL: sessionTTL}
}

// SignUp creates a new account. The email is normalized to lower case.
func (a *Auth) SignUp(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}

	salt, err := newSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	user := userRecord{
		ID:        uuid.NewString(),
		Email:     email,
		PassHash:  hashPassword(salt, password),
		Salt:      salt,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	created, err := a.client.SetNX(ctx, UserKey(email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return ErrUserExists
	}
	return nil
}

// SignIn verifies credentials and issues a session token.
func (a *Auth) SignIn(ctx context.Context, email, password string) (string, *Identity, error) {
	email = normalizeEmail(email)

	data, err := a.client.Get(ctx, UserKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	var user userRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	if subtle.ConstantTimeCompare(
		[]byte(hashPassword(user.Salt, password)),
		[]byte(user.PassHash),
	) != 1 {
		return "", nil, ErrInvalidCredentials
	}

	identity := &Identity{ID: user.ID, Email: user.Email}
	token := uuid.NewString()

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := a.client.Set(ctx, SessionKey(token), payload, a.sessionTTL).Err(); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	return token, identity, nil
}

// Validate resolves a session token to its identity. A token that no
// longer exists (expired or revoked) yields ErrSessionExpired.
func (a *Auth) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}

	data, err := a.client.Get(ctx, SessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &identity, nil
}

// UserID resolves an account email to its user id. Used by background
// jobs that operate on a named account.
func (a *Auth) UserID(ctx context.Context, email string) (string, error) {
	data, err := a.client.Get(ctx, UserKey(normalizeEmail(email))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("unknown user %q", email)
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	var user userRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return "", fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return user.ID, nil
}

// SignOut revokes a session token. Revoking an unknown token is a no-op.
func (a *Auth) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.client.Del(ctx, SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}
