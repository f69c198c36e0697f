package ewaste_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ecoloop/ewaste"
)

// MockConfig implements ewaste.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	if aud, ok := args.Get(0).([]string); ok {
		return aud
	}
	return nil
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetSigningMethod").Return("HS256")
	mockConfig.On("GetContextKey").Return("user")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetTokenLookup").Return("header:Authorization")
	mockConfig.On("GetAuthScheme").Return("Bearer")
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}

// MockIdentityProvider implements ewaste.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, username, password string) (ewaste.Identity, error) {
	args := m.Called(ctx, username, password)
	if identity, ok := args.Get(0).(ewaste.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (ewaste.Identity, error) {
	args := m.Called(ctx, username)
	if identity, ok := args.Get(0).(ewaste.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserStore implements ewaste.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) LoadAll(ctx context.Context) ([]*ewaste.User, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]*ewaste.User); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) SaveAll(ctx context.Context, records []*ewaste.User) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*ewaste.User, error) {
	args := m.Called(ctx, username)
	if record, ok := args.Get(0).(*ewaste.User); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, record *ewaste.User) (*ewaste.User, error) {
	args := m.Called(ctx, record)
	if created, ok := args.Get(0).(*ewaste.User); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// TestIdentity is a simple implementation of the Identity interface
type TestIdentity struct {
	id       string
	username string
}

func (t TestIdentity) ID() string       { return t.id }
func (t TestIdentity) Username() string { return t.username }
