package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		text     string
		alias    string
		metadata string
	}{
		{"ControllerBase", "", "ControllerBase"},
		{"Microsoft.AspNetCore.Mvc.ControllerBase", "", "Microsoft.AspNetCore.Mvc.ControllerBase"},
		{"Hub<IChatClient>", "", "Hub`1"},
		{"Dictionary<string, List<int>>", "", "Dictionary`2"},
		{"global::Microsoft.AspNetCore.SignalR.Hub", "global", "Microsoft.AspNetCore.SignalR.Hub"},
		{"Outer<int>.Inner", "", "Outer`1.Inner"},
		{"Task?", "", "Task"},
		{"int[]", "", "int"},
		{"@class", "", "class"},
		{"(int, string)", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ref := ParseTypeRef(tt.text)
			assert.Equal(t, tt.alias, ref.Alias)
			assert.Equal(t, tt.metadata, ref.MetadataName())
		})
	}
}

func TestTypeRefIsVoid(t *testing.T) {
	assert.True(t, ParseTypeRef("void").IsVoid())
	assert.True(t, ParseTypeRef(" void ").IsVoid())
	assert.False(t, ParseTypeRef("Task").IsVoid())
}
