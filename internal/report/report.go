// Package report renders Markdown analysis reports and console summaries.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"hackinsight/internal/analyzer"
	"hackinsight/internal/model"
	"hackinsight/internal/output"
)

const reportTemplate = `# {{ .Hackathon.Name }} - Analysis Report

Generated on: {{ .GeneratedAt }}

## Overview
- **Event**: {{ .Hackathon.Name }}
- **URL**: {{ .Hackathon.DevpostURL }}
- **Total Projects**: {{ len .Hackathon.Projects }}
- **Analysis Date**: {{ .ScrapedAt }}
{{- if .Description }}

### Description
{{ .Description }}
{{- end }}

## Project Statistics

- **Unique Technologies**: {{ .Stats.UniqueTechnologies }}
- **Total Awards**: {{ .Stats.TotalAwards }}
- **Average Team Size**: {{ printf "%.1f" .Stats.AvgTeamSize }}

### Top Technologies/Tags
{{- range .Stats.TopTags }}
- **{{ .Name }}**: {{ .Count }} project(s)
{{- end }}
{{- if .Stats.AwardDistribution }}

### Award Distribution
{{- range .Stats.AwardDistribution }}
- **{{ .Name }}**: {{ .Count }} project(s)
{{- end }}
{{- end }}

## Projects
{{- range $i, $p := .Hackathon.Projects }}
{{- if $i }}

---
{{- end }}

### {{ $p.Name }}

{{ if $p.Description }}{{ $p.Description }}{{ else }}**Description**: No description available{{ end }}

**Technologies**: {{ join $p.Tags }}
{{- if $p.Awards }}

**Awards**: {{ awardNames $p.Awards }}
{{- end }}
{{- if $p.Members }}

**Team**: {{ memberNames $p.Members }}
{{- end }}

**Project URL**: {{ $p.DevpostURL }}
{{- if $p.ProjectURL }}
**External URL**: {{ $p.ProjectURL }}
{{- end }}
{{- end }}

## Technology Trends
{{- if .Trends.TopDomains }}

### Problem Domains
{{- range .Trends.TopDomains }}
- **{{ .Name }}**: {{ .Count }} project(s)
{{- end }}
{{- end }}
{{- if .Trends.TechCombinations }}

### Popular Combinations
{{- range .Trends.TechCombinations }}
- {{ .A }} + {{ .B }} ({{ .Count }})
{{- end }}
{{- end }}

## Analysis Summary

This report analyzed {{ len .Hackathon.Projects }} projects from {{ .Hackathon.Name }}.
{{- if .Podium }}

The most popular technologies were:
{{- range $i, $t := .Podium }}
{{ inc $i }}. {{ $t.Name }} ({{ $t.Count }} projects)
{{- end }}
{{- end }}

## Methodology

This report was generated by scraping data from Devpost using automated tools. The analysis includes project descriptions, technologies used, team information, and awards received.
{{- if .IncludeIdeas }}

---

{{ .Ideas }}
{{- end }}

---
*Report generated by hackinsight on {{ .GeneratedAt }}*
`

// Stats are the aggregate numbers shown in a report.
type Stats struct {
	TopTags            []analyzer.Count
	AwardDistribution  []analyzer.Count
	AvgTeamSize        float64
	TotalAwards        int
	UniqueTechnologies int
}

// Generator renders hackathon reports.
type Generator struct {
	tmpl *template.Template
	now  func() time.Time
}

func New() *Generator {
	funcs := template.FuncMap{
		"join": func(s []string) string { return strings.Join(s, ", ") },
		"inc":  func(i int) int { return i + 1 },
		"awardNames": func(a []model.Award) string {
			names := make([]string, len(a))
			for i, aw := range a {
				names[i] = aw.Name
			}
			return strings.Join(names, ", ")
		},
		"memberNames": func(m []model.ProjectMember) string {
			names := make([]string, len(m))
			for i, mb := range m {
				names[i] = mb.Name
			}
			return strings.Join(names, ", ")
		},
	}
	return &Generator{
		tmpl: template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
		now:  time.Now,
	}
}

// ComputeStats aggregates tags, awards, and team sizes.
func ComputeStats(h *model.Hackathon) Stats {
	trends := analyzer.AnalyzeTrends(h)

	var awardOrder []string
	awards := map[string]int{}
	members := 0
	for _, p := range h.Projects {
		for _, a := range p.Awards {
			if _, ok := awards[a.Name]; !ok {
				awardOrder = append(awardOrder, a.Name)
			}
			awards[a.Name]++
		}
		members += len(p.Members)
	}

	var dist []analyzer.Count
	total := 0
	for _, name := range awardOrder {
		dist = append(dist, analyzer.Count{Name: name, Count: awards[name]})
		total += awards[name]
	}
	sortCounts(dist)
	if len(dist) > 10 {
		dist = dist[:10]
	}

	var avg float64
	if len(h.Projects) > 0 {
		avg = float64(members) / float64(len(h.Projects))
	}

	return Stats{
		TopTags:            trends.TopTechnologies,
		AwardDistribution:  dist,
		AvgTeamSize:        avg,
		TotalAwards:        total,
		UniqueTechnologies: trends.UniqueTechnologies,
	}
}

func sortCounts(c []analyzer.Count) {
	// insertion sort keeps ties in first-seen order
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Count > c[j-1].Count; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

// Render produces the Markdown report. Ideas are included only when
// includeIdeas is set.
func (g *Generator) Render(h *model.Hackathon, ideas []analyzer.Idea, includeIdeas bool) (string, error) {
	if h == nil {
		return "", eris.New("report: nil hackathon")
	}

	stats := ComputeStats(h)
	podium := stats.TopTags
	if len(podium) > 3 {
		podium = podium[:3]
	}

	scrapedAt := "N/A"
	if !h.ScrapedAt.IsZero() {
		scrapedAt = h.ScrapedAt.Format("2006-01-02 15:04:05")
	}

	data := struct {
		Hackathon    *model.Hackathon
		Description  string
		GeneratedAt  string
		ScrapedAt    string
		Stats        Stats
		Trends       analyzer.Trends
		Podium       []analyzer.Count
		IncludeIdeas bool
		Ideas        string
	}{
		Hackathon:    h,
		Description:  output.MarkdownOrText(h.Description),
		GeneratedAt:  g.now().Format("2006-01-02 15:04:05"),
		ScrapedAt:    scrapedAt,
		Stats:        stats,
		Trends:       analyzer.AnalyzeTrends(h),
		Podium:       podium,
		IncludeIdeas: includeIdeas,
		Ideas:        FormatIdeas(ideas),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", eris.Wrap(err, "report: render")
	}
	return buf.String(), nil
}

// Write renders the report to path, creating parent directories.
func (g *Generator) Write(h *model.Hackathon, ideas []analyzer.Idea, includeIdeas bool, path string) error {
	content, err := g.Render(h, ideas, includeIdeas)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "report: create dir")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return eris.Wrap(err, "report: write")
	}
	zap.L().Info("report written", zap.String("path", path))
	return nil
}

// Filename builds "<safe_name>_YYYYMMDD_HHMMSS.md" under dir. Only letters,
// digits, spaces, '-' and '_' survive; spaces become underscores.
func Filename(name, dir string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, name)
	safe = strings.ReplaceAll(strings.TrimRight(safe, " "), " ", "_")
	if safe == "" {
		safe = "report"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.md", safe, now.Format("20060102_150405")))
}

// FormatIdeas renders generated ideas as a Markdown section.
func FormatIdeas(ideas []analyzer.Idea) string {
	if len(ideas) == 0 {
		return "## AI-Generated MVP Ideas\n\nNo ideas generated."
	}

	var b strings.Builder
	b.WriteString("## AI-Generated MVP Ideas\n\n")
	b.WriteString("Based on the analysis of winning projects and emerging trends, here are MVP ideas:\n")
	field := func(label, v string) {
		if v != "" {
			fmt.Fprintf(&b, "\n**%s**: %s\n", label, v)
		}
	}
	for i, idea := range ideas {
		fmt.Fprintf(&b, "\n### %d. %s\n", i+1, idea.Name)
		if idea.Tagline != "" {
			fmt.Fprintf(&b, "**%s**\n", idea.Tagline)
		}
		field("Description", idea.Description)
		field("Problem", idea.ProblemStatement)
		field("Target Users", idea.TargetUsers)
		if len(idea.KeyFeatures) > 0 {
			b.WriteString("\n**Key Features**:\n")
			for _, f := range idea.KeyFeatures {
				fmt.Fprintf(&b, "- %s\n", f)
			}
		}
		field("Tech Stack", strings.Join(idea.TechStack, ", "))
		field("AI Integration", idea.AIIntegration)
		field("MVP Scope", idea.MVPScope)
		field("Revenue Model", idea.RevenueModel)
		field("Unique Value", idea.UniqueValue)
		if len(idea.ImplementationSteps) > 0 {
			b.WriteString("\n**Implementation Steps**:\n")
			for j, s := range idea.ImplementationSteps {
				fmt.Fprintf(&b, "%d. %s\n", j+1, s)
			}
		}
		field("Growth Potential", idea.GrowthPotential)
		b.WriteString("\n---\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
