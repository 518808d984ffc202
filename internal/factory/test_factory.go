package factory

import (
	"time"

	"github.com/mverne/openrealm/internal/dependencies/mocks"
	"github.com/mverne/openrealm/internal/metrics"
	"github.com/mverne/openrealm/internal/services/auth"
	"github.com/mverne/openrealm/internal/storage/memory"
	"github.com/mverne/openrealm/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, metrics.NopRecorder{}, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
