package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SentStore records which reminder keys were delivered. Claim is atomic so
// only one caller, across every process sharing the store, gets true for a
// key. Release gives a claimed key back after a failed delivery.
type SentStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

const sentTTL = 48 * time.Hour

// MemorySentStore keeps claimed keys in process memory. Entries older than
// two days are pruned on claim.
type MemorySentStore struct {
	mu   sync.Mutex
	sent map[string]time.Time
	now  func() time.Time
}

func NewMemorySentStore() *MemorySentStore {
	return &MemorySentStore{sent: make(map[string]time.Time), now: time.Now}
}

func (s *MemorySentStore) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, at := range s.sent {
		if now.Sub(at) > sentTTL {
			delete(s.sent, k)
		}
	}
	if _, ok := s.sent[key]; ok {
		return false, nil
	}
	s.sent[key] = now
	return true, nil
}

func (s *MemorySentStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sent, key)
	return nil
}

func (s *MemorySentStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// RedisSentStore shares claimed keys between server replicas.
type RedisSentStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSentStore(client *redis.Client) *RedisSentStore {
	return &RedisSentStore{client: client, prefix: "medilingo:reminder:"}
}

func (s *RedisSentStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339), sentTTL).Result()
}

func (s *RedisSentStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
