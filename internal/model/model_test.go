package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccessInvariant(t *testing.T) {
	h := &Hackathon{Name: "AI Fest", DevpostURL: "https://aifest.devpost.com"}
	r := NewSuccess("https://aifest.devpost.com", h)

	assert.True(t, r.Success)
	assert.Same(t, h, r.Hackathon)
	assert.Empty(t, r.ErrorMessage)
	assert.False(t, r.ScrapedAt.IsZero())
	assert.NoError(t, r.Validate())
}

func TestNewSuccessNilHackathonIsFailure(t *testing.T) {
	r := NewSuccess("https://x.devpost.com", nil)
	assert.False(t, r.Success)
	assert.Nil(t, r.Hackathon)
	assert.NotEmpty(t, r.ErrorMessage)
	assert.NoError(t, r.Validate())
}

func TestNewFailureInvariant(t *testing.T) {
	r := NewFailure("https://x.devpost.com", "navigation timeout")
	assert.False(t, r.Success)
	assert.Nil(t, r.Hackathon)
	assert.Equal(t, "navigation timeout", r.ErrorMessage)
	assert.NoError(t, r.Validate())

	assert.Equal(t, "unknown error", NewFailure("u", "  ").ErrorMessage)
}

func TestValidateRejectsBrokenEnvelopes(t *testing.T) {
	h := &Hackathon{Name: "n"}
	assert.ErrorIs(t, ScrapeResult{Success: true}.Validate(), ErrInvalidResult)
	assert.ErrorIs(t, ScrapeResult{Success: true, Hackathon: h, ErrorMessage: "x"}.Validate(), ErrInvalidResult)
	assert.ErrorIs(t, ScrapeResult{Success: false, Hackathon: h}.Validate(), ErrInvalidResult)
}

func TestProjectEnrichAppends(t *testing.T) {
	p := Project{Description: "Original text."}
	p.Enrich("**Summary**: generated")
	assert.Equal(t, "Original text.\n\n---\n\n**Summary**: generated", p.Description)
	assert.True(t, strings.HasPrefix(p.Description, "Original text."))

	p.Enrich("   ")
	assert.Equal(t, "Original text.\n\n---\n\n**Summary**: generated", p.Description)

	empty := Project{}
	empty.Enrich("only generated")
	assert.Equal(t, "only generated", empty.Description)
}

func TestHackathonTagsKeepOrderAndDuplicates(t *testing.T) {
	h := Hackathon{}
	h.AddProject(Project{Tags: []string{"python", "react"}})
	h.AddProject(Project{Tags: []string{"python"}})
	assert.Equal(t, []string{"python", "react", "python"}, h.Tags())
	assert.Len(t, h.Projects, 2)
}

func TestSaveAndLoadResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")
	scraped := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	h := &Hackathon{
		Name:       "AI Fest",
		DevpostURL: "https://aifest.devpost.com",
		ScrapedAt:  scraped,
		Projects: []Project{{
			Name:        "Bot",
			Description: "A bot",
			DevpostURL:  "https://devpost.com/software/bot",
			Tags:        []string{"go"},
			Awards:      []Award{{Name: "Winner"}},
			Members:     []ProjectMember{{Name: "Ada", ProfileURL: "https://devpost.com/ada"}},
		}},
	}
	r := NewSuccess(h.DevpostURL, h)
	r.ScrapedAt = scraped
	require.NoError(t, SaveResult(r, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"scraped_at": "2025-03-04T05:06:07Z"`)
	assert.Contains(t, string(raw), `"profile_url": "https://devpost.com/ada"`)
	assert.NotContains(t, string(raw), "error_message")

	loaded, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)
}

func TestLoadResultMissingFile(t *testing.T) {
	_, err := LoadResult(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestOutputFilename(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, filepath.Join("data", "project_20250102_030405.json"),
		OutputFilename("https://devpost.com/software/bot", "data", now))
	assert.Equal(t, filepath.Join("data", "hackathon_20250102_030405.json"),
		OutputFilename("https://aifest.devpost.com/project-gallery", "data", now))
}
