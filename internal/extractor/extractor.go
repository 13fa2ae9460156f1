// Package extractor pulls projects, hackathon metadata and search listings
// out of DOM contexts using ordered selector families.
package extractor

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"hackinsight/internal/dom"
	"hackinsight/internal/model"
	"hackinsight/internal/selector"
)

const (
	// fallbackMinText is the visible text a generic container needs before
	// it is used as a description source.
	fallbackMinText = 100
	// fallbackMinLine drops short navigation/boilerplate lines.
	fallbackMinLine  = 20
	fallbackMaxLines = 5
	fallbackMaxChars = 500

	unknownProject   = "Unknown Project"
	unknownHackathon = "Unknown Hackathon"
)

// Enricher produces generated description text from a raw page capture.
type Enricher interface {
	Enrich(ctx context.Context, pageHTML, projectName string) (string, error)
}

// Extractor applies the extraction policy for each entity type.
type Extractor struct {
	multi    *selector.Engine
	single   *selector.Engine
	enricher Enricher
}

// New creates an Extractor. A nil enricher disables enrichment.
func New(enricher Enricher) *Extractor {
	return &Extractor{
		multi:    selector.New(),
		single:   &selector.Engine{MaxParts: 1},
		enricher: enricher,
	}
}

// ExtractProject builds a Project from a loaded project page. It never
// fails: missing fields are left empty and the description falls back to a
// placeholder naming the project.
func (e *Extractor) ExtractProject(ctx context.Context, doc dom.Node, sourceURL string) model.Project {
	log := zap.L().With(zap.String("url", sourceURL))

	name := collapse(e.single.ResolveText(doc, projectName))

	var pageHTML string
	if e.enricher != nil {
		if d, ok := doc.(dom.Document); ok {
			html, err := d.HTML()
			if err != nil {
				log.Warn("capture page html failed", zap.Error(err))
			}
			pageHTML = html
		}
	}

	description := e.description(doc)
	if description == "" {
		log.Warn("no description found", zap.String("project", name))
		description = fallbackDescription(doc)
	} else {
		log.Debug("found description", zap.Int("chars", len(description)))
	}

	if name == "" {
		name = unknownProject
	}

	p := model.Project{
		Name:        name,
		Description: description,
		DevpostURL:  sourceURL,
		ProjectURL:  e.projectLink(doc),
		Tags:        e.tags(doc),
		Awards:      e.awards(doc),
		Members:     e.members(doc, sourceURL),
	}

	if e.enricher != nil && pageHTML != "" && name != unknownProject {
		enriched, err := e.enricher.Enrich(ctx, pageHTML, name)
		switch {
		case err != nil:
			log.Warn("enrichment failed", zap.String("project", name), zap.Error(err))
		case strings.TrimSpace(enriched) == "":
			log.Debug("enrichment returned nothing", zap.String("project", name))
		default:
			p.Enrich(enriched)
		}
	}

	if strings.TrimSpace(p.Description) == "" {
		p.Description = Placeholder(name)
	}
	return p
}

// Placeholder is the last-resort description for a project with no text.
func Placeholder(name string) string {
	return "Project: " + name + ". No detailed description available."
}

// description tries each container; inside a container, paragraph children
// are preferred over the container's own text.
func (e *Extractor) description(doc dom.Node) string {
	for _, container := range descriptionContainers {
		paragraphs := selector.Query(doc, container+" p")
		if len(paragraphs) > selector.DefaultMaxParts {
			paragraphs = paragraphs[:selector.DefaultMaxParts]
		}
		var texts []string
		for _, p := range paragraphs {
			if t := selector.TextOf(p); t != "" {
				texts = append(texts, t)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, " ")
		}

		if t := e.single.ResolveText(doc, selector.Family{container}); t != "" {
			return t
		}
	}
	return ""
}

// fallbackDescription condenses the first generic container with enough text.
func fallbackDescription(doc dom.Node) string {
	for _, container := range fallbackContainers {
		matches := selector.Query(doc, container)
		if len(matches) == 0 {
			continue
		}
		text := selector.TextOf(matches[0])
		if utf8.RuneCountInString(text) <= fallbackMinText {
			continue
		}

		var lines []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) > fallbackMinLine {
				lines = append(lines, line)
			}
			if len(lines) == fallbackMaxLines {
				break
			}
		}
		if len(lines) == 0 {
			continue
		}
		zap.L().Debug("used fallback description", zap.String("container", container))
		return truncateRunes(strings.Join(lines, " "), fallbackMaxChars) + "..."
	}
	return ""
}

func (e *Extractor) tags(doc dom.Node) []string {
	tags := []string{}
	for _, t := range e.multi.ResolveTexts(doc, tagFamilies) {
		tags = append(tags, collapse(t))
	}
	return tags
}

func (e *Extractor) members(doc dom.Node, sourceURL string) []model.ProjectMember {
	members := []model.ProjectMember{}
	named := func(n dom.Node) bool { return e.single.ResolveText(n, memberName) != "" }
	for _, n := range e.multi.ResolveMatching(doc, memberFamilies, named) {
		members = append(members, model.ProjectMember{
			Name:       collapse(e.single.ResolveText(n, memberName)),
			ProfileURL: Absolute(sourceURL, e.single.ResolveAttribute(n, memberProfile, "href")),
			Role:       collapse(e.single.ResolveText(n, memberRole)),
		})
	}
	return members
}

func (e *Extractor) awards(doc dom.Node) []model.Award {
	awards := []model.Award{}
	for _, t := range e.multi.ResolveTexts(doc, awardFamilies) {
		awards = append(awards, model.Award{Name: collapse(t)})
	}
	return awards
}

// projectLink prefers code-hosting links and ignores relative ones.
func (e *Extractor) projectLink(doc dom.Node) string {
	return e.single.ResolveAttributeFunc(doc, projectLinks, "href", func(href string) bool {
		return !isRelative(href)
	})
}

// ExtractHackathonMetadata returns the event name and description from a
// hackathon or gallery page.
func (e *Extractor) ExtractHackathonMetadata(doc dom.Node) (name, description string) {
	name = collapse(e.single.ResolveText(doc, hackathonName))
	if name == "" {
		if d, ok := doc.(dom.Document); ok {
			if title, err := d.Title(); err == nil {
				name = strings.TrimSpace(strings.Replace(title, " | Devpost", "", 1))
			}
		}
	}
	if name == "" {
		name = unknownHackathon
	}
	description = e.single.ResolveText(doc, hackathonDescription)
	return name, description
}

// ExtractSearchResult reads one listing card. It returns nil when the card
// has no name or link, or links to a single project instead of a hackathon.
func (e *Extractor) ExtractSearchResult(el dom.Node, baseURL string) *model.HackathonSearchResult {
	name := collapse(e.single.ResolveText(el, searchName))

	href := e.single.ResolveAttribute(el, searchLink, "href")
	if href == "" {
		// The card may itself be the link.
		href = selector.AttrOf(el, "href")
		if name == "" && href != "" {
			name = collapse(selector.TextOf(el))
		}
	}
	link := Absolute(baseURL, href)

	if name == "" || link == "" || model.IsProjectURL(link) {
		return nil
	}

	status := strings.ToLower(collapse(e.single.ResolveText(el, searchStatus)))
	if status == "" {
		status = "ended"
	}

	return &model.HackathonSearchResult{
		Name:         name,
		URL:          link,
		Participants: ParseParticipants(e.single.ResolveText(el, searchParticipants)),
		Prizes:       collapse(e.single.ResolveText(el, searchPrizes)),
		Description:  collapse(e.single.ResolveText(el, searchDescription)),
		Status:       status,
	}
}

var digitRun = regexp.MustCompile(`\d+`)

// ParseParticipants extracts the first run of digits after removing
// thousands separators. Text without digits yields nil.
func ParseParticipants(text string) *int {
	m := digitRun.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// Absolute resolves href against base. Empty input stays empty.
func Absolute(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return ref.String()
	}
	return b.ResolveReference(ref).String()
}

func isRelative(href string) bool {
	return strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "?")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
