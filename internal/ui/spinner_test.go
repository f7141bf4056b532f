package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerModelStatusAndCompletion(t *testing.T) {
	m := newSpinnerModel("Analyzing")

	_, cmd := m.Update(statusMsg("Loading Web"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Analyzing")
	assert.Contains(t, m.View(), "Loading Web")

	_, cmd = m.Update(actionDoneMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "✓")
}

func TestSpinnerModelFailure(t *testing.T) {
	m := newSpinnerModel("Analyzing")
	boom := errors.New("boom")

	m.Update(actionDoneMsg{err: boom})
	assert.ErrorIs(t, m.err, boom)
	assert.Contains(t, m.View(), "boom")
}

func TestSpinnerModelInterrupt(t *testing.T) {
	m := newSpinnerModel("Analyzing")
	cancelled := false
	m.cancel = func() { cancelled = true }

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, cancelled)
	assert.ErrorIs(t, m.err, ErrCanceled)
}
