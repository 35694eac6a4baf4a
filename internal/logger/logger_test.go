package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output for the duration of a test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug(t *testing.T) {
	t.Run("verbose", func(t *testing.T) {
		buf := capture(t, true)
		Debug("test message %s", "arg")
		assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
	})

	t.Run("quiet", func(t *testing.T) {
		buf := capture(t, false)
		Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Publishing")
	assert.Equal(t, "[DEBUG] === Publishing ===\n", buf.String())

	buf.Reset()
	SetVerbose(false)
	Section("Publishing")
	assert.Empty(t, buf.String())
}

func TestInfo(t *testing.T) {
	buf := capture(t, true)
	Info("info message")
	assert.Equal(t, "[INFO] info message\n", buf.String())

	buf.Reset()
	SetVerbose(false)
	Info("hidden")
	assert.Empty(t, buf.String())
}

func TestWarnAndError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("warning %d", 1)
	Error("failure")

	assert.Equal(t, "[WARN] warning 1\n[ERROR] failure\n", buf.String())
}

func TestWithFields(t *testing.T) {
	buf := capture(t, false)

	WithFields(Fields{"step": "upload", "attempt": 1}).Warn("slow response")

	assert.Equal(t, "[WARN] slow response attempt=1 step=upload\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
