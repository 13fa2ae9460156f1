// Package formatter renders a scrape result for stdout.
package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"hackinsight/internal/model"
	"hackinsight/internal/report"
)

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

func Format(r model.ScrapeResult, format string) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", eris.Wrap(err, "formatter: marshal json")
		}
		return string(b), nil
	case FormatMarkdown:
		if !r.Success || r.Hackathon == nil {
			return fmt.Sprintf("# Scrape failed\n\n- **URL**: %s\n- **Error**: %s\n", r.URL, r.ErrorMessage), nil
		}
		return report.New().Render(r.Hackathon, nil, false)
	case FormatText:
		return text(r), nil
	default:
		return "", eris.Errorf("formatter: unsupported output format: %s", format)
	}
}

func text(r model.ScrapeResult) string {
	var b strings.Builder
	if !r.Success || r.Hackathon == nil {
		fmt.Fprintf(&b, "FAILED %s\n%s\n", r.URL, r.ErrorMessage)
		return b.String()
	}
	h := r.Hackathon
	fmt.Fprintf(&b, "%s\n%s\n%d project(s)\n", h.Name, h.DevpostURL, len(h.Projects))
	for _, p := range h.Projects {
		fmt.Fprintf(&b, "\n%s <%s>\n", p.Name, p.DevpostURL)
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "  tags: %s\n", strings.Join(p.Tags, ", "))
		}
		if len(p.Awards) > 0 {
			names := make([]string, len(p.Awards))
			for i, a := range p.Awards {
				names[i] = a.Name
			}
			fmt.Fprintf(&b, "  awards: %s\n", strings.Join(names, ", "))
		}
		desc := strings.Join(strings.Fields(p.Description), " ")
		if r := []rune(desc); len(r) > 200 {
			desc = string(r[:200]) + "..."
		}
		fmt.Fprintf(&b, "  %s\n", desc)
	}
	return b.String()
}
