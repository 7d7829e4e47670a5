package registry

import (
	"context"

	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockRegistry mocks the interfaces.TokenRegistry interface
type MockRegistry struct {
	mock.Mock
}

// Address mocks the Address method
func (m *MockRegistry) Address() interfaces.Address {
	args := m.Called()
	return args.Get(0).(interfaces.Address)
}

// Issuer mocks the Issuer method
func (m *MockRegistry) Issuer() interfaces.Address {
	args := m.Called()
	return args.Get(0).(interfaces.Address)
}

// Supports mocks the Supports method
func (m *MockRegistry) Supports(c interfaces.Capability) bool {
	args := m.Called(c)
	return args.Bool(0)
}

// Mint mocks the Mint method
func (m *MockRegistry) Mint(caller interfaces.Address, owner interfaces.Address) (interfaces.TokenID, error) {
	args := m.Called(caller, owner)
	return args.Get(0).(interfaces.TokenID), args.Error(1)
}

// Revoke mocks the Revoke method
func (m *MockRegistry) Revoke(caller interfaces.Address, id interfaces.TokenID) error {
	args := m.Called(caller, id)
	return args.Error(0)
}

// BalanceOf mocks the BalanceOf method
func (m *MockRegistry) BalanceOf(owner interfaces.Address) uint64 {
	args := m.Called(owner)
	return args.Get(0).(uint64)
}

// OwnerOf mocks the OwnerOf method
func (m *MockRegistry) OwnerOf(id interfaces.TokenID) (interfaces.Address, error) {
	args := m.Called(id)
	return args.Get(0).(interfaces.Address), args.Error(1)
}

// IsValid mocks the IsValid method
func (m *MockRegistry) IsValid(id interfaces.TokenID) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// HasValid mocks the HasValid method
func (m *MockRegistry) HasValid(owner interfaces.Address) bool {
	args := m.Called(owner)
	return args.Bool(0)
}

// Name mocks the Name method
func (m *MockRegistry) Name() string {
	args := m.Called()
	return args.String(0)
}

// Symbol mocks the Symbol method
func (m *MockRegistry) Symbol() string {
	args := m.Called()
	return args.String(0)
}

// TokenURI mocks the TokenURI method
func (m *MockRegistry) TokenURI(id interfaces.TokenID) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

// StoreTokenDocument mocks the StoreTokenDocument method
func (m *MockRegistry) StoreTokenDocument(ctx context.Context, caller interfaces.Address, id interfaces.TokenID, doc []byte) (interfaces.ContentID, error) {
	args := m.Called(ctx, caller, id, doc)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

// TokenDocument mocks the TokenDocument method
func (m *MockRegistry) TokenDocument(ctx context.Context, id interfaces.TokenID) ([]byte, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]byte), args.Error(1)
}

// EmittedCount mocks the EmittedCount method
func (m *MockRegistry) EmittedCount() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// HoldersCount mocks the HoldersCount method
func (m *MockRegistry) HoldersCount() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// TokenOfOwnerByIndex mocks the TokenOfOwnerByIndex method
func (m *MockRegistry) TokenOfOwnerByIndex(owner interfaces.Address, index uint64) (interfaces.TokenID, error) {
	args := m.Called(owner, index)
	return args.Get(0).(interfaces.TokenID), args.Error(1)
}

// TokenByIndex mocks the TokenByIndex method
func (m *MockRegistry) TokenByIndex(index uint64) (interfaces.TokenID, error) {
	args := m.Called(index)
	return args.Get(0).(interfaces.TokenID), args.Error(1)
}

// Delegate mocks the Delegate method
func (m *MockRegistry) Delegate(caller interfaces.Address, operator interfaces.Address, owner interfaces.Address) error {
	args := m.Called(caller, operator, owner)
	return args.Error(0)
}

// DelegateBatch mocks the DelegateBatch method
func (m *MockRegistry) DelegateBatch(caller interfaces.Address, operators []interfaces.Address, owners []interfaces.Address) error {
	args := m.Called(caller, operators, owners)
	return args.Error(0)
}

// IssuerOf mocks the IssuerOf method
func (m *MockRegistry) IssuerOf(id interfaces.TokenID) (interfaces.Address, error) {
	args := m.Called(id)
	return args.Get(0).(interfaces.Address), args.Error(1)
}

// Voters mocks the Voters method
func (m *MockRegistry) Voters() []interfaces.Address {
	args := m.Called()
	return args.Get(0).([]interfaces.Address)
}

// Quorum mocks the Quorum method
func (m *MockRegistry) Quorum() int {
	args := m.Called()
	return args.Int(0)
}

// ApproveMint mocks the ApproveMint method
func (m *MockRegistry) ApproveMint(caller interfaces.Address, owner interfaces.Address) (interfaces.TokenID, bool, error) {
	args := m.Called(caller, owner)
	return args.Get(0).(interfaces.TokenID), args.Bool(1), args.Error(2)
}

// ApproveRevoke mocks the ApproveRevoke method
func (m *MockRegistry) ApproveRevoke(caller interfaces.Address, id interfaces.TokenID) (bool, error) {
	args := m.Called(caller, id)
	return args.Bool(0), args.Error(1)
}

// ChangeOwner mocks the ChangeOwner method
func (m *MockRegistry) ChangeOwner(id interfaces.TokenID, recipient interfaces.Address, signature []byte) error {
	args := m.Called(id, recipient, signature)
	return args.Error(0)
}

// MockResolver mocks the interfaces.RegistryResolver interface
type MockResolver struct {
	mock.Mock
}

// RegistryFor mocks the RegistryFor method
func (m *MockResolver) RegistryFor(addr interfaces.Address) (interfaces.TokenRegistry, error) {
	args := m.Called(addr)
	return args.Get(0).(interfaces.TokenRegistry), args.Error(1)
}
