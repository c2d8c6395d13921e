package storage

import (
	"seulink/internal/domain"
	"seulink/internal/store"
)

// MockClient implements store.Client on top of the local engine.
type MockClient struct {
	engine   *Engine
	profiles *Table[domain.UserProfile]
	auth     *MockAuth
}

// NewMockClient wires the profiles table and the mock identity store.
func NewMockClient(e *Engine, secret []byte) *MockClient {
	profiles := NewTable[domain.UserProfile](e, domain.ProfilesTable, domain.MergeProfile)
	return &MockClient{
		engine:   e,
		profiles: profiles,
		auth:     NewMockAuth(e, profiles, secret),
	}
}

func (c *MockClient) Profiles() store.Query[domain.UserProfile] { return c.profiles.Select() }
func (c *MockClient) Auth() store.Auth                          { return c.auth }
func (c *MockClient) Mode() store.Mode                          { return store.ModeMock }
func (c *MockClient) Close() error                              { return c.engine.Close() }
