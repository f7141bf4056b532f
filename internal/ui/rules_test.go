package ui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/diag"
)

var sampleDescriptors = []diag.Descriptor{
	{ID: "ASP0030", Title: "Do not use async void", Category: "Usage", DefaultSeverity: diag.SevWarning},
	{ID: "AD0001", Title: "Analyzer failure", Category: "Compiler", DefaultSeverity: diag.SevWarning},
}

func TestRenderRulesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRules(&buf, sampleDescriptors, "text", false))
	out := buf.String()
	for _, want := range []string{"ID", "Severity", "ASP0030", "warning", "Usage", "Do not use async void", "AD0001"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderRulesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRules(&buf, sampleDescriptors, "json", false))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "ASP0030", got[0]["id"])
}

func TestRenderRulesUnsupported(t *testing.T) {
	err := RenderRules(&bytes.Buffer{}, sampleDescriptors, "csv", false)
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}
