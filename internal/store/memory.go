package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryGateway keeps documents in process memory.
// It is used by tests and by DB_DRIVER=memory for local runs.
type MemoryGateway struct {
	mu          sync.RWMutex
	collections map[string][]bson.Raw
	unique      map[string][]string
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		collections: make(map[string][]bson.Raw),
		unique:      make(map[string][]string),
	}
}

func (m *MemoryGateway) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	d, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	d, id := withID(d)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUniqueLocked(collection, d, -1); err != nil {
		return "", err
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	m.collections[collection] = append(m.collections[collection], raw)
	return id, nil
}

func (m *MemoryGateway) FindOne(ctx context.Context, collection string, filter Filter, out any) error {
	f, err := toDocument(map[string]any(filter))
	if err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, _, err := m.findLocked(collection, f)
	if err != nil {
		return err
	}
	return bson.Unmarshal(m.collections[collection][idx], out)
}

func (m *MemoryGateway) UpsertOne(ctx context.Context, collection string, filter Filter, update any) error {
	f, err := toDocument(map[string]any(filter))
	if err != nil {
		return err
	}
	u, err := toDocument(update)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx, current, err := m.findLocked(collection, f)
	switch {
	case err == nil:
		for key, value := range u {
			if key == idField {
				continue
			}
			current[key] = value
		}
	case errors.Is(err, ErrNotFound):
		idx = -1
		current = f
		for key, value := range u {
			current[key] = value
		}
		current, _ = withID(current)
	default:
		return err
	}

	if err := m.checkUniqueLocked(collection, current, idx); err != nil {
		return err
	}
	raw, err := bson.Marshal(current)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if idx < 0 {
		m.collections[collection] = append(m.collections[collection], raw)
	} else {
		m.collections[collection][idx] = raw
	}
	return nil
}

func (m *MemoryGateway) EnsureUnique(ctx context.Context, collection, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.unique[collection] {
		if existing == field {
			return nil
		}
	}
	m.unique[collection] = append(m.unique[collection], field)
	return nil
}

func (m *MemoryGateway) Close(ctx context.Context) error {
	return nil
}

// Count returns the number of documents in collection.
func (m *MemoryGateway) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *MemoryGateway) findLocked(collection string, filter bson.M) (int, bson.M, error) {
	for i, raw := range m.collections[collection] {
		doc := bson.M{}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return -1, nil, fmt.Errorf("decode document: %w", err)
		}
		if matches(doc, filter) {
			return i, doc, nil
		}
	}
	return -1, nil, ErrNotFound
}

// checkUniqueLocked rejects doc when a document other than skip shares a
// unique field value with it.
func (m *MemoryGateway) checkUniqueLocked(collection string, doc bson.M, skip int) error {
	for _, field := range m.unique[collection] {
		value, ok := doc[field]
		if !ok {
			continue
		}
		for i, raw := range m.collections[collection] {
			if i == skip {
				continue
			}
			existing := bson.M{}
			if err := bson.Unmarshal(raw, &existing); err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			if reflect.DeepEqual(existing[field], value) {
				return fmt.Errorf("%s.%s: %w", collection, field, ErrDuplicate)
			}
		}
	}
	return nil
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
