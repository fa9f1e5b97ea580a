package stores

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

type memoryRemote struct {
	mu   sync.Mutex
	docs map[string][]byte
	hub  *hub

	// SubscribeErr, when set, makes Subscribe fail. Tests use it to cover the
	// broken-subscription fallback path.
	SubscribeErr error
}

// NewMemoryRemote returns an in-memory RemoteStore with the same merge and
// subscription semantics as the Postgres backend.
func NewMemoryRemote() *memoryRemote {
	return &memoryRemote{docs: make(map[string][]byte), hub: newHub()}
}

func (m *memoryRemote) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, exists := m.docs[path]
	if !exists {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *memoryRemote) List(_ context.Context, prefix string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var docs []Document
	for path, data := range m.docs {
		if strings.HasPrefix(path, prefix+"/") {
			out := make([]byte, len(data))
			copy(out, data)
			docs = append(docs, Document{Path: path, Data: out})
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (m *memoryRemote) Insert(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	if _, exists := m.docs[path]; exists {
		m.mu.Unlock()
		return ErrAlreadyExists
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[path] = stored
	m.mu.Unlock()

	m.hub.publish(Event{Path: path, Data: data})
	return nil
}

func (m *memoryRemote) Upsert(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	merged := mergeDocuments(m.docs[path], data)
	m.docs[path] = merged
	m.mu.Unlock()

	m.hub.publish(Event{Path: path, Data: merged})
	return nil
}

func (m *memoryRemote) BatchUpsert(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		if err := m.Upsert(ctx, doc.Path, doc.Data); err != nil {
			return err
		}
	}

	return nil
}

func (m *memoryRemote) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.docs, path)
	m.mu.Unlock()

	m.hub.publish(Event{Path: path, Deleted: true})
	return nil
}

func (m *memoryRemote) Subscribe(ctx context.Context, prefix string, onChange func(Event)) (func(), error) {
	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}

	unsubscribe := m.hub.add(prefix, onChange)

	data, err := m.Get(ctx, prefix)
	if err == nil {
		onChange(Event{Path: prefix, Data: data})
		return unsubscribe, nil
	}

	docs, _ := m.List(ctx, prefix)
	if len(docs) == 0 {
		onChange(Event{Path: prefix, Deleted: true})
	}

	for _, doc := range docs {
		onChange(Event{Path: doc.Path, Data: doc.Data})
	}

	return unsubscribe, nil
}

// Len reports the number of stored documents.
func (m *memoryRemote) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.docs)
}

// mergeDocuments field-merges incoming JSON into an existing document,
// matching the JSONB || operator used by the Postgres backend. Non-object
// payloads and undecodable existing values fall back to replacement.
func mergeDocuments(existing, incoming []byte) []byte {
	if len(existing) == 0 {
		return incoming
	}

	var base map[string]json.RawMessage
	if err := json.Unmarshal(existing, &base); err != nil {
		return incoming
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(incoming, &overlay); err != nil {
		return incoming
	}

	for field, value := range overlay {
		base[field] = value
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return incoming
	}

	return merged
}
