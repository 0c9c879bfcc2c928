package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segyhp/lendbook/internal/domain"
)

type clientRepository struct {
	store KVStore
	mu    sync.Mutex
}

// NewClientRepository stores all clients as one JSON array under ClientsKey.
func NewClientRepository(store KVStore) ClientRepository {
	return &clientRepository{store: store}
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return loadJSON[domain.Client](ctx, r.store, ClientsKey)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}

	return nil, ErrNotFound
}

func (r *clientRepository) Save(ctx context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range clients {
		if clients[i].ID == client.ID {
			clients[i] = *client
			replaced = true
			break
		}
	}
	if !replaced {
		clients = append(clients, *client)
	}

	return saveJSON(ctx, r.store, ClientsKey, clients)
}

// loadJSON decodes the array under key. A missing key is an empty array.
func loadJSON[T any](ctx context.Context, store KVStore, key string) ([]T, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

func saveJSON[T any](ctx context.Context, store KVStore, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(raw))
}
