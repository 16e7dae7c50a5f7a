package integration

import (
	"os"
	"testing"
)

// TestMain handles setup and teardown for the entire test suite
func TestMain(m *testing.M) {
	code := m.Run()

	CleanupSharedResources()

	os.Exit(code)
}
