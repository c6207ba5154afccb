package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects logger output into a buffer for one test and
// restores the defaults afterwards.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WriteTaggedLines(t *testing.T) {
	buf := capture(t, true)

	Debug("retrieved %d candidates", 5)
	Info("aggregating %s context", "attraction")
	Warn("source %s timed out", "tip")

	assert.Equal(t,
		"[DEBUG] retrieved 5 candidates\n"+
			"[INFO] aggregating attraction context\n"+
			"[WARN] source tip timed out\n",
		buf.String())
}

func TestSectionHeader(t *testing.T) {
	buf := capture(t, true)

	Section("Retrieval")

	assert.Equal(t, "\n=== Retrieval ===\n", buf.String())
}

func TestQuietUnlessVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

func TestConcurrentUse(t *testing.T) {
	SetOutput(io.Discard)
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Debug("worker %d", i)
			Info("worker %d", i)
			_ = IsVerbose()
			Warn("worker %d", i)
		}(i)
	}
	wg.Wait()
}
