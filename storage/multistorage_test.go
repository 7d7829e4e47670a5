package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/ruteri/ntt-registry-backend/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorageBackend implements interfaces.StorageBackend for testing
type MockStorageBackend struct {
	mock.Mock
	name string
}

func (m *MockStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageBackend) Store(ctx context.Context, data []byte) (interfaces.ContentID, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *MockStorageBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStorageBackend) Name() string {
	return m.name
}

func (m *MockStorageBackend) LocationURI() string {
	return "mock:"
}

func TestMultiStorageBackend_Available(t *testing.T) {
	tests := []struct {
		name     string
		backends []bool
		expected bool
	}{
		{
			name:     "all backends available",
			backends: []bool{true, true, true},
			expected: true,
		},
		{
			name:     "some backends available",
			backends: []bool{false, true, false},
			expected: true,
		},
		{
			name:     "no backends available",
			backends: []bool{false, false, false},
			expected: false,
		},
		{
			name:     "no backends",
			backends: []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backends []interfaces.StorageBackend
			for i, available := range tt.backends {
				mockStorage := &MockStorageBackend{name: fmt.Sprintf("mock-A%x", i)}
				mockStorage.On("Available", mock.Anything).Return(available).Maybe()
				backends = append(backends, mockStorage)
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			multi := NewMultiStorageBackend(backends, logger)

			result := multi.Available(context.Background())
			assert.Equal(t, tt.expected, result)

			for _, backend := range backends {
				mockStorage := backend.(*MockStorageBackend)
				mockStorage.AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorageBackend_Fetch(t *testing.T) {
	testID := interfaces.ContentID([32]byte{1, 2, 3, 4})
	testData := []byte("test data")
	testErr := errors.New("test error")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("first backend successful", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(true)
		mock1.On("Fetch", mock.Anything, testID).Return(testData, nil)

		mock2 := &MockStorageBackend{name: "mock-B"}

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1, mock2}, logger)
		data, err := multi.Fetch(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
		mock1.AssertExpectations(t)
		mock2.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("fallback to second backend", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(true)
		mock1.On("Fetch", mock.Anything, testID).Return(nil, testErr)

		mock2 := &MockStorageBackend{name: "mock-B"}
		mock2.On("Available", mock.Anything).Return(true)
		mock2.On("Fetch", mock.Anything, testID).Return(testData, nil)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1, mock2}, logger)
		data, err := multi.Fetch(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
	})

	t.Run("unavailable backend skipped", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(false)

		mock2 := &MockStorageBackend{name: "mock-B"}
		mock2.On("Available", mock.Anything).Return(true)
		mock2.On("Fetch", mock.Anything, testID).Return(testData, nil)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1, mock2}, logger)
		data, err := multi.Fetch(context.Background(), testID)
		require.NoError(t, err)
		assert.Equal(t, testData, data)
		mock1.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("all backends fail", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(true)
		mock1.On("Fetch", mock.Anything, testID).Return(nil, testErr)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1}, logger)
		_, err := multi.Fetch(context.Background(), testID)
		assert.Error(t, err)
	})
}

func TestMultiStorageBackend_Store(t *testing.T) {
	testData := []byte("test data")
	testID := interfaces.ComputeID(testData)
	testErr := errors.New("test error")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stores to all available backends", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(true)
		mock1.On("Store", mock.Anything, testData).Return(testID, nil)

		mock2 := &MockStorageBackend{name: "mock-B"}
		mock2.On("Available", mock.Anything).Return(true)
		mock2.On("Store", mock.Anything, testData).Return(testID, nil)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1, mock2}, logger)
		id, err := multi.Store(context.Background(), testData)
		require.NoError(t, err)
		assert.Equal(t, testID, id)
		mock1.AssertExpectations(t)
		mock2.AssertExpectations(t)
	})

	t.Run("partial failure still succeeds", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(true)
		mock1.On("Store", mock.Anything, testData).Return(interfaces.ContentID{}, testErr)

		mock2 := &MockStorageBackend{name: "mock-B"}
		mock2.On("Available", mock.Anything).Return(true)
		mock2.On("Store", mock.Anything, testData).Return(testID, nil)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1, mock2}, logger)
		id, err := multi.Store(context.Background(), testData)
		require.NoError(t, err)
		assert.Equal(t, testID, id)
	})

	t.Run("all backends fail", func(t *testing.T) {
		mock1 := &MockStorageBackend{name: "mock-A"}
		mock1.On("Available", mock.Anything).Return(false)

		multi := NewMultiStorageBackend([]interfaces.StorageBackend{mock1}, logger)
		_, err := multi.Store(context.Background(), testData)
		assert.Error(t, err)
	})
}

func TestFileBackend_RoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := NewFileBackend(t.TempDir(), logger)
	require.NoError(t, err)

	doc := []byte(`{"credential":"diploma","holder":"0x2000000000000000000000000000000000000002"}`)

	ctx := context.Background()
	id, err := backend.Store(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(doc), id)

	got, err := backend.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = backend.Fetch(ctx, interfaces.ComputeID([]byte("missing")))
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	assert.True(t, backend.Available(ctx))
}

func TestFactory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := NewFactory(logger)

	loc, err := interfaces.NewStorageBackendLocation("file://" + t.TempDir())
	require.NoError(t, err)

	backend, err := factory.StorageBackendFor(loc)
	require.NoError(t, err)
	assert.True(t, backend.Available(context.Background()))

	_, err = interfaces.NewStorageBackendLocation("ftp://example.com/docs")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	multi, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{loc})
	require.NoError(t, err)
	assert.True(t, multi.Available(context.Background()))
}
