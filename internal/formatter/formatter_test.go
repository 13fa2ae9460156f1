package formatter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackinsight/internal/model"
)

func result() model.ScrapeResult {
	return model.NewSuccess("https://aifest.devpost.com", &model.Hackathon{
		Name:       "AI Fest",
		DevpostURL: "https://aifest.devpost.com",
		Projects: []model.Project{
			{Name: "SkyWatch", DevpostURL: "https://devpost.com/software/skywatch", Description: "Fire\n  alerts.", Tags: []string{"python"}, Awards: []model.Award{{Name: "Best AI"}}},
		},
	})
}

func TestFormatJSON(t *testing.T) {
	out, err := Format(result(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, true, decoded["success"])
}

func TestFormatText(t *testing.T) {
	out, err := Format(result(), FormatText)
	require.NoError(t, err)
	assert.Equal(t, "AI Fest\nhttps://aifest.devpost.com\n1 project(s)\n\nSkyWatch <https://devpost.com/software/skywatch>\n  tags: python\n  awards: Best AI\n  Fire alerts.\n", out)

	out, err = Format(model.NewFailure("u", "boom"), FormatText)
	require.NoError(t, err)
	assert.Equal(t, "FAILED u\nboom\n", out)
}

func TestFormatMarkdown(t *testing.T) {
	out, err := Format(result(), FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, out, "# AI Fest - Analysis Report")

	out, err = Format(model.NewFailure("u", "boom"), FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, out, "**Error**: boom")
}

func TestFormatUnsupported(t *testing.T) {
	_, err := Format(result(), "csv")
	assert.Error(t, err)
}
