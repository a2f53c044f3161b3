package factory

import (
	"time"

	"github.com/mcoot/judgecore/internal/dependencies/mocks"
	"github.com/mcoot/judgecore/internal/services/auth"
	"github.com/mcoot/judgecore/internal/storage/memory"
	"github.com/mcoot/judgecore/internal/testutil"
)

// TestSecret signs tokens issued by a TestApp
const TestSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGen
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and policy-checked subscriptions
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGen()

	app := newWithDependencies(store, mockClock, mockIDs, Config{
		AuthConfig:      auth.Config{Secret: TestSecret, TokenTTL: time.Hour},
		StrictSubscribe: true,
	}, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
