package events

import (
	"os"
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no test in this package leaks the event bus's
// background consumer goroutine or any other background goroutine.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("testing.(*T).Run"),
		goleak.IgnoreTopFunction("runtime.gopark"),
		goleak.IgnoreTopFunction("time.Sleep"),
	)
	os.Exit(m.Run())
}
