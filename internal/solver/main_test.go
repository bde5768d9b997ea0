package solver

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutine started by a session's transport
// (line reader, process waiter, stderr drain) outlives its test —
// the same leak-detection discipline the solver's dispatch loop is
// built to uphold for the solve it drives.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
