package session

import (
	"context"
	"errors"
	"time"

	"github.com/radarobras/radar_api/internal"
)

var ErrNotFound = errors.New("session not found")

// DefaultTTL matches the 7-day login horizon the product promises.
const DefaultTTL = 7 * 24 * time.Hour

type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Role            string    `json:"role"`
	LojaID          string    `json:"loja_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type Store interface {
	Set(ctx context.Context, id string, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	Store         Store
	TTL           time.Duration
	MaxAge        time.Duration
	RefreshBefore time.Duration
	IDBytes       int
}

func (m *Manager) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return DefaultTTL
}

func (m *Manager) Create(ctx context.Context, userID, role, lojaID string) (*Session, error) {
	if m.Store == nil {
		return nil, errors.New("session store not configured")
	}

	idBytes := m.IDBytes
	if idBytes <= 0 {
		idBytes = 32
	}

	now := time.Now()
	exp := now.Add(m.ttl())
	s := Session{
		ID:              "ses_" + internal.RandomHex(idBytes),
		UserID:          userID,
		Role:            role,
		LojaID:          lojaID,
		CreatedAt:       now,
		LastRefreshedAt: now,
		ExpiresAt:       exp,
	}

	if err := m.Store.Set(ctx, s.ID, s, m.ttl()); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if m.Store == nil {
		return nil, errors.New("session store not configured")
	}
	sess, err := m.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if m.MaxAge > 0 && now.After(sess.CreatedAt.Add(m.MaxAge)) {
		_ = m.Store.Delete(ctx, id)
		return nil, ErrNotFound
	}

	return sess, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if m.Store == nil {
		return errors.New("session store not configured")
	}
	return m.Store.Delete(ctx, id)
}

// Refresh extends a session close to expiry. Returns true when a new cookie
// must be written.
func (m *Manager) Refresh(ctx context.Context, sess *Session) (*Session, bool, error) {
	if m.Store == nil {
		return nil, false, errors.New("session store not configured")
	}
	if sess == nil {
		return nil, false, errors.New("session not provided")
	}

	now := time.Now()
	if m.MaxAge > 0 && now.After(sess.CreatedAt.Add(m.MaxAge)) {
		_ = m.Store.Delete(ctx, sess.ID)
		return nil, false, ErrNotFound
	}

	if m.RefreshBefore > 0 && time.Until(sess.ExpiresAt) > m.RefreshBefore {
		return sess, false, nil
	}
	if m.RefreshBefore <= 0 {
		return sess, false, nil
	}

	sess.ExpiresAt = now.Add(m.ttl())
	sess.LastRefreshedAt = now

	if err := m.Store.Set(ctx, sess.ID, *sess, m.ttl()); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}
