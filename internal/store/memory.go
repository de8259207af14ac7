// Package store persists generator request and response records. The
// PostgreSQL implementation backs the service; the in-memory
// implementation backs tests and the mock-mode CLI path.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/drewhammond/folio-api/internal/generator"
)

// Memory is an in-memory RecordStore. Records are deep-copied through
// JSON on both writes and reads so callers never share mutable state
// with the store.
type Memory struct {
	mu        sync.RWMutex
	requests  map[string][]byte
	responses map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		requests:  make(map[string][]byte),
		responses: make(map[string][]byte),
	}
}

// SaveRequest upserts a request record.
func (m *Memory) SaveRequest(_ context.Context, req *generator.GeneratorRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.requests[req.ID] = data
	m.mu.Unlock()
	return nil
}

// GetRequest returns a request by id, or nil if absent.
func (m *Memory) GetRequest(_ context.Context, id string) (*generator.GeneratorRequest, error) {
	m.mu.RLock()
	data, ok := m.requests[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var req generator.GeneratorRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SaveResponse writes a response record once; a second write for the
// same id is rejected.
func (m *Memory) SaveResponse(_ context.Context, resp *generator.GeneratorResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.responses[resp.ID]; exists {
		return ErrResponseExists
	}
	m.responses[resp.ID] = data
	return nil
}

// GetResponse returns a response by id, or nil if absent.
func (m *Memory) GetResponse(_ context.Context, id string) (*generator.GeneratorResponse, error) {
	m.mu.RLock()
	data, ok := m.responses[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var resp generator.GeneratorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
