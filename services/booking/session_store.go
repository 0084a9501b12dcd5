package booking

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"staybridge/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "booking:session:"

// SessionStore keeps the latest progress snapshot of each booking.
type SessionStore interface {
	Save(ctx context.Context, session models.BookingSession) error
	Get(ctx context.Context, partnerOrderID string) (*models.BookingSession, error)
	// Delete forgets a booking. Deleting an unknown id is not an error.
	Delete(ctx context.Context, partnerOrderID string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, session models.BookingSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+session.PartnerOrderID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, partnerOrderID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionPrefix+partnerOrderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, partnerOrderID string) error {
	return s.client.Del(ctx, sessionPrefix+partnerOrderID).Err()
}

// MemorySessionStore is a process-local SessionStore used by the CLI tools and tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.BookingSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.BookingSession)}
}

func (s *MemorySessionStore) Save(_ context.Context, session models.BookingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.PartnerOrderID] = session.Snapshot()
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, partnerOrderID string) (*models.BookingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[partnerOrderID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := session.Snapshot()
	return &cp, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, partnerOrderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, partnerOrderID)
	return nil
}
