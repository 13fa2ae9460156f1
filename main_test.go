package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input  string
		idx    int
		chosen bool
		valid  bool
	}{
		{"1", 0, true, true},
		{" 3 ", 2, true, true},
		{"q", 0, false, true},
		{"Q", 0, false, true},
		{"0", 0, false, false},
		{"4", 0, false, false},
		{"abc", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			idx, chosen, valid := parseChoice(tt.input, 3)
			assert.Equal(t, tt.idx, idx)
			assert.Equal(t, tt.chosen, chosen)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	idx, err := prompt(strings.NewReader("x\n7\n2\n"), &out, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid selection"))
}

func TestPromptQuitIsAnError(t *testing.T) {
	var out bytes.Buffer

	_, err := prompt(strings.NewReader("q\n"), &out, 3)
	assert.ErrorIs(t, err, errNoSelection)

	// End of input behaves like quitting.
	_, err = prompt(strings.NewReader(""), &out, 3)
	assert.ErrorIs(t, err, errNoSelection)
}

func TestValidateArgs(t *testing.T) {
	defer func() { searchMode, autoSelect = false, false }()

	searchMode, autoSelect = false, false
	assert.NoError(t, validateArgs([]string{"https://aifest.devpost.com/project-gallery"}))
	assert.Error(t, validateArgs(nil))
	assert.Error(t, validateArgs([]string{"https://example.com/project"}))

	autoSelect = true
	assert.Error(t, validateArgs([]string{"https://devpost.com/software/x"}))

	searchMode = true
	assert.NoError(t, validateArgs(nil))
	assert.Error(t, validateArgs([]string{"https://devpost.com/software/x"}))
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"", "json", "markdown", "text"} {
		assert.NoError(t, validateFormat(f), f)
	}
	assert.Error(t, validateFormat("csv"))
}
