package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/concert-ticket-booking/internal/model"
)

// UserStore keeps accounts in memory.  Durability is out of scope for
// this service, so the store is a mutex-guarded map keyed by user ID
// with a secondary index on the lower-cased email.  Passwords are
// hashed with bcrypt at the configured cost before they are stored.
type UserStore struct {
	bcryptCost int

	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

// NewUserStore returns an empty store.  cost is the bcrypt cost factor;
// values outside bcrypt's valid range fall back to the default cost.
func NewUserStore(cost int) *UserStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserStore{
		bcryptCost: cost,
		byID:       make(map[string]*model.User),
		byEmail:    make(map[string]*model.User),
	}
}

// Create registers a new account with the given role and returns it.
// The email is unique across the store; a second registration with the
// same address fails with ErrEmailTaken.
func (s *UserStore) Create(email, password, role string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[key]; exists {
		return nil, ErrEmailTaken
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        key,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u
	return u, nil
}

// Authenticate verifies an email/password pair and returns the matching
// user.  A wrong password and an unknown email both surface
// ErrUserNotFound so callers cannot probe which addresses exist.
func (s *UserStore) Authenticate(email, password string) (*model.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	u, ok := s.byEmail[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ByID resolves a user by identifier.
func (s *UserStore) ByID(id string) (*model.User, error) {
	s.mu.RLock()
	u, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}
