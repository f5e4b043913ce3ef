package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie.
const CookieName = "inkwell_session"

const (
	sessionKeyPrefix = "session:%s"
	flashKeyPrefix   = "flash:%s"
)

const (
	// SessionTTL bounds how long a session record (and its cookie) stays valid.
	SessionTTL = 7 * 24 * time.Hour
	// Anonymous sessions exist only to carry flash messages across redirects.
	AnonymousTTL = 30 * time.Minute
)

// ErrNoSession is returned when a cookie is absent, tampered with, expired,
// or its server-side record is gone.
var ErrNoSession = errors.New("no valid session")

func sessionKey(id string) string {
	return fmt.Sprintf(sessionKeyPrefix, id)
}

func flashKey(id string) string {
	return fmt.Sprintf(flashKeyPrefix, id)
}

// Manager issues, resolves, and destroys sessions.
type Manager struct {
	rdb    *redis.Client
	secret []byte
}

// NewManager returns a Manager backed by the given Redis client, signing
// cookies with secret.
func NewManager(rdb *redis.Client, secret string) *Manager {
	return &Manager{rdb: rdb, secret: []byte(secret)}
}

// Issue creates a session for userID and returns its ID and signed cookie
// value. userID 0 creates an anonymous session, used only as a flash carrier.
func (m *Manager) Issue(ctx context.Context, userID uint) (id, cookieValue string, err error) {
	id = uuid.NewString()

	ttl := SessionTTL
	kind := "authenticated"
	if userID == 0 {
		ttl = AnonymousTTL
		kind = "anonymous"
	}

	if err := m.rdb.Set(ctx, sessionKey(id), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return "", "", fmt.Errorf("storing session: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid": id,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "inkwell",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	cookieValue, err = token.SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("signing session cookie: %w", err)
	}

	observability.SessionsIssued.WithLabelValues(kind).Inc()
	return id, cookieValue, nil
}

// Resolve validates a cookie value and returns the session ID and the user ID
// bound to it (0 for anonymous sessions). Any failure maps to ErrNoSession;
// the caller treats the request as anonymous.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (id string, userID uint, err error) {
	if cookieValue == "" {
		return "", 0, ErrNoSession
	}

	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", 0, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, ErrNoSession
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", 0, ErrNoSession
	}

	stored, err := m.rdb.Get(ctx, sessionKey(sid)).Result()
	if err != nil {
		// redis.Nil means logged out or expired server-side
		return "", 0, ErrNoSession
	}

	uid, err := strconv.ParseUint(stored, 10, 32)
	if err != nil {
		return "", 0, ErrNoSession
	}

	return sid, uint(uid), nil
}

// Destroy removes the session record and any pending flashes. It is
// unconditional: destroying an already-gone session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.rdb.Del(ctx, sessionKey(id), flashKey(id)).Err()
}

// AddFlash queues a one-shot message for the session's next page fetch.
func (m *Manager) AddFlash(ctx context.Context, id, message string) error {
	if err := m.rdb.RPush(ctx, flashKey(id), message).Err(); err != nil {
		return fmt.Errorf("queueing flash: %w", err)
	}
	// Flashes never outlive their session.
	return m.rdb.Expire(ctx, flashKey(id), SessionTTL).Err()
}

// PopFlashes returns and clears all pending flash messages for the session.
func (m *Manager) PopFlashes(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		return nil, nil
	}
	pipe := m.rdb.TxPipeline()
	lrange := pipe.LRange(ctx, flashKey(id), 0, -1)
	pipe.Del(ctx, flashKey(id))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("draining flashes: %w", err)
	}
	return lrange.Val(), nil
}
