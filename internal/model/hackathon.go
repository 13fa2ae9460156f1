// Package model holds the scraped domain entities and the result envelope.
package model

import (
	"strings"
	"time"
)

// ProjectMember is one person on a project team.
type ProjectMember struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Award is a prize won by a project.
type Award struct {
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Sponsor    string `json:"sponsor,omitempty"`
	PrizeValue string `json:"prize_value,omitempty"`
}

// EnrichmentSeparator sits between extracted and generated description text.
const EnrichmentSeparator = "\n\n---\n\n"

// Project is a single hackathon submission.
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DevpostURL  string          `json:"devpost_url"`
	ProjectURL  string          `json:"project_url,omitempty"`
	Tags        []string        `json:"tags"`
	Awards      []Award         `json:"awards"`
	Members     []ProjectMember `json:"members"`
}

// Enrich appends generated text to the description. The extracted text is
// kept as-is; an empty enrichment is a no-op.
func (p *Project) Enrich(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if p.Description == "" {
		p.Description = text
		return
	}
	p.Description = p.Description + EnrichmentSeparator + text
}

// DegenerateHackathonName names the wrapper around an ad-hoc project scrape.
const DegenerateHackathonName = "Scraped Hackathon"

// Hackathon is an event and the projects crawled from its gallery.
type Hackathon struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DevpostURL  string    `json:"devpost_url"`
	Projects    []Project `json:"projects"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// AddProject appends p in crawl order.
func (h *Hackathon) AddProject(p Project) {
	h.Projects = append(h.Projects, p)
}

// Tags returns every project tag in discovery order, duplicates included.
func (h *Hackathon) Tags() []string {
	var tags []string
	for _, p := range h.Projects {
		tags = append(tags, p.Tags...)
	}
	return tags
}

// HackathonSearchResult is a lightweight listing entry used only for
// discovery. It is never merged into a Hackathon.
type HackathonSearchResult struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Participants *int   `json:"participants,omitempty"`
	Prizes       string `json:"prizes,omitempty"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
}
