package analyzer

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Section keys, in page order.
const (
	SectionInspiration     = "inspiration"
	SectionWhatItDoes      = "what_it_does"
	SectionHowBuilt        = "how_built"
	SectionChallenges      = "challenges"
	SectionAccomplishments = "accomplishments"
	SectionLearned         = "learned"
	SectionWhatsNext       = "whats_next"
)

type sectionHeading struct {
	key    string
	title  string
	prefix bool
}

var sectionHeadings = []sectionHeading{
	{SectionInspiration, "inspiration", false},
	{SectionWhatItDoes, "what it does", false},
	{SectionHowBuilt, "how we built it", false},
	{SectionChallenges, "challenges we ran into", false},
	{SectionAccomplishments, "accomplishments that we're proud of", false},
	{SectionLearned, "what we learned", false},
	{SectionWhatsNext, "what's next for ", true},
}

// Section is one write-up block from a project page.
type Section struct {
	Key  string
	Text string
}

// Sections keeps sections in canonical order.
type Sections []Section

// Get returns the text of key, or "".
func (s Sections) Get(key string) string {
	for _, sec := range s {
		if sec.Key == key {
			return sec.Text
		}
	}
	return ""
}

// Label turns a section key into a heading such as "What It Does".
func Label(key string) string {
	return titleCase(strings.ReplaceAll(key, "_", " "))
}

var strict = bluemonday.StrictPolicy()

// ExtractSections finds the standard write-up headings and takes the
// paragraph immediately following each one. Missing sections are omitted.
func ExtractSections(pageHTML string) Sections {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	found := map[string]string{}
	doc.Find("h2, h3").Each(func(_ int, h *goquery.Selection) {
		key := headingKey(h.Text())
		if key == "" {
			return
		}
		if _, ok := found[key]; ok {
			return
		}
		p := h.NextFiltered("p")
		if p.Length() == 0 {
			return
		}
		inner, err := p.Html()
		if err != nil {
			return
		}
		if text := cleanText(inner); text != "" {
			found[key] = text
		}
	})

	var out Sections
	for _, sh := range sectionHeadings {
		if text, ok := found[sh.key]; ok {
			out = append(out, Section{Key: sh.key, Text: text})
		}
	}
	return out
}

func headingKey(text string) string {
	t := strings.ToLower(strings.Join(strings.Fields(text), " "))
	t = strings.ReplaceAll(t, "’", "'")
	for _, sh := range sectionHeadings {
		if sh.prefix && strings.HasPrefix(t, sh.title) {
			return sh.key
		}
		if t == sh.title {
			return sh.key
		}
	}
	return ""
}

// cleanText strips markup and collapses whitespace.
func cleanText(fragment string) string {
	text := html.UnescapeString(strict.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}
