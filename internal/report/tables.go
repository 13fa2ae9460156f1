package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"hackinsight/internal/model"
	"hackinsight/internal/store"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// Summary prints the headline numbers for a scraped hackathon followed by
// its five most used technologies.
func Summary(w io.Writer, h *model.Hackathon) {
	if h == nil {
		return
	}
	stats := ComputeStats(h)
	tags := h.Tags()

	scraped := "N/A"
	if !h.ScrapedAt.IsZero() {
		scraped = h.ScrapedAt.Format("2006-01-02 15:04:05")
	}

	t := newTable(w, "Analysis Summary: "+h.Name)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total Projects", len(h.Projects)},
		{"Scraped At", scraped},
		{"Unique Technologies", stats.UniqueTechnologies},
		{"Total Technology Tags", len(tags)},
		{"Total Awards", stats.TotalAwards},
	})
	t.Render()

	if len(stats.TopTags) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTop Technologies:")
	for i, c := range stats.TopTags {
		if i == 5 {
			break
		}
		fmt.Fprintf(w, "%d. %s: %d project(s)\n", i+1, c.Name, c.Count)
	}
}

// SearchResults prints numbered search results for selection.
func SearchResults(w io.Writer, results []model.HackathonSearchResult) {
	t := newTable(w, "Recent AI Hackathons")
	t.AppendHeader(table.Row{"No.", "Name", "Participants", "Status", "URL"})
	for i, r := range results {
		participants := "N/A"
		if r.Participants != nil {
			participants = strconv.Itoa(*r.Participants)
		}
		t.AppendRow(table.Row{i + 1, r.Name, participants, r.Status, r.URL})
	}
	t.Render()
}

// History prints recorded runs.
func History(w io.Writer, runs []store.Run) {
	t := newTable(w, "Scrape History")
	t.AppendHeader(table.Row{"Completed", "Kind", "URL", "Result", "Projects", "Report"})
	for _, r := range runs {
		result := "ok"
		if !r.Success {
			result = "failed: " + r.Error
		}
		t.AppendRow(table.Row{
			r.CompletedAt.Local().Format("2006-01-02 15:04:05"),
			r.Kind, r.URL, result, r.ProjectCount, r.ReportPath,
		})
	}
	t.Render()
}
