package upload

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "feed:upload:"

var ErrNotFound = errors.New("upload não encontrado ou expirado")

// Upload é o arquivo bruto guardado entre o upload e o export.
// Só os bytes são guardados; cada export faz o parse de novo.
type Upload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// New cria um Upload com um ID novo.
func New(name string, data []byte) Upload {
	return Upload{
		ID:        uuid.New().String(),
		Name:      name,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

type Store interface {
	Save(ctx context.Context, u Upload) error
	Get(ctx context.Context, id string) (*Upload, error)
}

type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) Save(ctx context.Context, u Upload) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, keyPrefix+u.ID, b, s.TTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Upload, error) {
	val, err := s.Client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u Upload
	if err := json.Unmarshal(val, &u); err != nil {
		return nil, err
	}
	// Estende a expiração sempre que o valor é lido
	s.Client.Expire(ctx, keyPrefix+id, s.TTL)
	return &u, nil
}

// MemoryStore é usado quando não há redis configurado. Uploads expirados são
// removidos no Save.
type MemoryStore struct {
	TTL time.Duration

	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	upload  Upload
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{TTL: ttl, items: make(map[string]memItem), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, u Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, it := range s.items {
		if now.After(it.expires) {
			delete(s.items, id)
		}
	}
	data := make([]byte, len(u.Data))
	copy(data, u.Data)
	u.Data = data
	s.items[u.ID] = memItem{upload: u, expires: now.Add(s.TTL)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok || s.now().After(it.expires) {
		delete(s.items, id)
		return nil, ErrNotFound
	}
	it.expires = s.now().Add(s.TTL)
	s.items[id] = it

	u := it.upload
	u.Data = append([]byte(nil), it.upload.Data...)
	return &u, nil
}
