package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ScrapeResult is the envelope returned by every top-level scrape.
// Success is true exactly when Hackathon is set and ErrorMessage is empty.
type ScrapeResult struct {
	Success      bool       `json:"success"`
	URL          string     `json:"url"`
	Hackathon    *Hackathon `json:"hackathon,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ScrapedAt    time.Time  `json:"scraped_at"`
}

// NewSuccess wraps a scraped hackathon. A nil hackathon yields a failure.
func NewSuccess(url string, h *Hackathon) ScrapeResult {
	if h == nil {
		return NewFailure(url, "no hackathon data")
	}
	return ScrapeResult{
		Success:   true,
		URL:       url,
		Hackathon: h,
		ScrapedAt: time.Now(),
	}
}

// NewFailure records a failed scrape.
func NewFailure(url, message string) ScrapeResult {
	if strings.TrimSpace(message) == "" {
		message = "unknown error"
	}
	return ScrapeResult{
		Success:      false,
		URL:          url,
		ErrorMessage: message,
		ScrapedAt:    time.Now(),
	}
}

// ErrInvalidResult marks an envelope that breaks the success invariant.
var ErrInvalidResult = eris.New("model: invalid scrape result")

// Validate checks the success/hackathon/error invariant.
func (r ScrapeResult) Validate() error {
	if r.Success {
		if r.Hackathon == nil || r.ErrorMessage != "" {
			return eris.Wrap(ErrInvalidResult, "success requires a hackathon and no error")
		}
		return nil
	}
	if r.Hackathon != nil {
		return eris.Wrap(ErrInvalidResult, "failure must not carry a hackathon")
	}
	return nil
}

// SaveResult writes the result as indented JSON, creating parent directories.
func SaveResult(r ScrapeResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "model: create output dir")
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "model: marshal result")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "model: write result")
	}
	return nil
}

// LoadResult reads a result previously written by SaveResult.
func LoadResult(path string) (ScrapeResult, error) {
	var r ScrapeResult
	data, err := os.ReadFile(path)
	if err != nil {
		return r, eris.Wrap(err, "model: read result")
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, eris.Wrap(err, "model: unmarshal result")
	}
	return r, nil
}

// IsProjectURL reports whether url points at a single project page.
func IsProjectURL(url string) bool {
	return strings.Contains(url, "/software/")
}

// OutputFilename names the raw data file for a scrape of url.
func OutputFilename(url, dir string, now time.Time) string {
	prefix := "hackathon"
	if IsProjectURL(url) {
		prefix = "project"
	}
	return filepath.Join(dir, prefix+"_"+now.Format("20060102_150405")+".json")
}
