package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharmLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Logf("scanning %s\n", "src")
	l.Debugf("hidden %d", 1)
	l.Warnf("skipped %s", "Broken.cs")

	out := buf.String()
	assert.Contains(t, out, "scanning src")
	assert.Contains(t, out, "skipped Broken.cs")
	assert.NotContains(t, out, "hidden")

	buf.Reset()
	verbose := New(&buf, true)
	verbose.Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestCharmLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).With("project", "Web").Log("loaded")
	assert.Contains(t, buf.String(), "project=Web")
	assert.Contains(t, buf.String(), "loaded")
}

type recordingSpinner struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingSpinner) Update(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
}
func (r *recordingSpinner) Stop() {}
func (r *recordingSpinner) Fail() {}

func TestUILoggerRoutesToSpinner(t *testing.T) {
	var buf bytes.Buffer
	ui := NewUILogger(New(&buf, true))
	s := &recordingSpinner{}

	ui.Attach(s)
	ui.Logf("parsing %s\nnext", "a.cs")
	ui.Debugf("dropped while spinning")
	ui.Warnf("still printed")
	ui.Detach()
	ui.Log("after")

	assert.Equal(t, []string{"parsing a.cs next"}, s.texts)
	out := buf.String()
	assert.Contains(t, out, "still printed")
	assert.Contains(t, out, "after")
	assert.NotContains(t, out, "dropped while spinning")
}
