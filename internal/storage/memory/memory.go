// Package memory is an in-process durable storage with the same contract as the postgres one.
// Used by tests of the services.
package memory

import (
	"context"
	"oauthd/internal/domain/models"
	"oauthd/internal/storage"
	"sync"
	"time"
)

type grantKey struct {
	userID   int64
	clientID string
}

// Storage keeps clients, users, grants and access tokens in maps guarded by one mutex
type Storage struct {
	mu      sync.Mutex
	clients map[string]models.Client
	users   map[int64]models.User
	grants  map[grantKey]models.Grant
	tokens  map[string]models.AccessToken
	seq     int64
}

// New creates empty storage
func New() *Storage {
	return &Storage{
		clients: make(map[string]models.Client),
		users:   make(map[int64]models.User),
		grants:  make(map[grantKey]models.Grant),
		tokens:  make(map[string]models.AccessToken),
	}
}

func (s *Storage) nextID() int64 {
	s.seq++
	return s.seq
}

// AddClient registers client
func (s *Storage) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	s.clients[c.ClientID] = c
	return c
}

// AddUser stores user, zero ID gets assigned
func (s *Storage) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID()
	}
	s.users[u.ID] = u
	return u
}

// RemoveUser deletes user keeping tokens issued for the user
func (s *Storage) RemoveUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// RemoveClient unregisters client keeping its pending artifacts
func (s *Storage) RemoveClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
}

// Grants returns number of stored grants
func (s *Storage) Grants() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants)
}

// PutAccessToken stores token as is, bypassing uniqueness
func (s *Storage) PutAccessToken(t models.AccessToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = t
}

// Client gets registered client by its public client_id
func (s *Storage) Client(_ context.Context, clientID string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, storage.ErrClientNotFound
	}
	return &c, nil
}

// UserByID searches user by ID
func (s *Storage) UserByID(_ context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

// HasGrant checks whether user has already consented to client
func (s *Storage) HasGrant(_ context.Context, userID int64, clientID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.grants[grantKey{userID: userID, clientID: clientID}]
	return ok, nil
}

// SaveGrant records user's consent to client once per pair
func (s *Storage) SaveGrant(_ context.Context, userID int64, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grantKey{userID: userID, clientID: clientID}
	if _, ok := s.grants[key]; ok {
		return nil
	}
	s.grants[key] = models.Grant{ID: s.nextID(), UserID: userID, ClientID: clientID, GrantedAt: time.Now()}
	return nil
}

// SaveAccessToken persists issued access token, duplicate value gives storage.ErrTokenExists
func (s *Storage) SaveAccessToken(_ context.Context, token *models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Token]; ok {
		return storage.ErrTokenExists
	}
	token.ID = s.nextID()
	token.CreatedAt = time.Now()
	s.tokens[token.Token] = *token
	return nil
}

// AccessToken gets access token by its value
func (s *Storage) AccessToken(_ context.Context, token string) (*models.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return &t, nil
}
