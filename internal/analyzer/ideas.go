package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/titanous/json5"
	"go.uber.org/zap"

	"hackinsight/internal/model"
)

// Count is a ranked occurrence count.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Pair is a ranked technology combination.
type Pair struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Trends summarizes what a hackathon's projects have in common.
type Trends struct {
	TopTechnologies    []Count `json:"top_technologies"`
	TopDomains         []Count `json:"top_domains"`
	TechCombinations   []Pair  `json:"tech_combinations"`
	TotalProjects      int     `json:"total_projects"`
	UniqueTechnologies int     `json:"unique_technologies"`
}

// Idea is a generated MVP suggestion.
type Idea struct {
	Name                string   `json:"name"`
	Tagline             string   `json:"tagline,omitempty"`
	Description         string   `json:"description,omitempty"`
	ProblemStatement    string   `json:"problem_statement,omitempty"`
	TargetUsers         string   `json:"target_users,omitempty"`
	KeyFeatures         []string `json:"key_features,omitempty"`
	TechStack           []string `json:"tech_stack,omitempty"`
	RevenueModel        string   `json:"revenue_model,omitempty"`
	MVPScope            string   `json:"mvp_scope,omitempty"`
	UniqueValue         string   `json:"unique_value,omitempty"`
	MarketSize          string   `json:"market_size,omitempty"`
	ImplementationSteps []string `json:"implementation_steps,omitempty"`
	PotentialChallenges []string `json:"potential_challenges,omitempty"`
	GrowthPotential     string   `json:"growth_potential,omitempty"`
	AIIntegration       string   `json:"ai_integration,omitempty"`
}

var problemDomains = []struct {
	name     string
	keywords []string
}{
	{"healthcare", []string{"health", "medical", "patient", "doctor", "hospital", "therapy"}},
	{"education", []string{"education", "learning", "student", "teacher", "school", "course"}},
	{"finance", []string{"finance", "banking", "payment", "money", "investment", "crypto"}},
	{"environment", []string{"environment", "climate", "sustainable", "green", "carbon", "energy"}},
	{"accessibility", []string{"accessibility", "disability", "inclusive", "blind", "deaf"}},
	{"mental_health", []string{"mental health", "anxiety", "depression", "wellness", "mindfulness"}},
	{"productivity", []string{"productivity", "efficiency", "workflow", "automation", "task"}},
	{"social", []string{"social", "community", "connect", "network", "communication"}},
}

// counter ranks keys by count, ties broken by first appearance.
type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter { return &counter{n: map[string]int{}} }

func (c *counter) add(k string) {
	if _, ok := c.n[k]; !ok {
		c.order = append(c.order, k)
	}
	c.n[k]++
}

func (c *counter) top(limit int) []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Name: k, Count: c.n[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AnalyzeTrends counts technologies, problem domains, and technology pairs
// across the hackathon's projects.
func AnalyzeTrends(h *model.Hackathon) Trends {
	techs, domains, pairs := newCounter(), newCounter(), newCounter()

	for _, p := range h.Projects {
		for _, t := range p.Tags {
			techs.add(t)
		}
		if desc := strings.ToLower(p.Description); desc != "" {
			for _, d := range problemDomains {
				for _, kw := range d.keywords {
					if strings.Contains(desc, kw) {
						domains.add(d.name)
						break
					}
				}
			}
		}
		for i := 0; i < len(p.Tags); i++ {
			for j := i + 1; j < len(p.Tags); j++ {
				pairs.add(p.Tags[i] + "\x00" + p.Tags[j])
			}
		}
	}

	var combos []Pair
	for _, c := range pairs.top(5) {
		a, b, _ := strings.Cut(c.Name, "\x00")
		combos = append(combos, Pair{A: a, B: b, Count: c.Count})
	}

	return Trends{
		TopTechnologies:    techs.top(10),
		TopDomains:         domains.top(5),
		TechCombinations:   combos,
		TotalProjects:      len(h.Projects),
		UniqueTechnologies: len(techs.order),
	}
}

// IdeaGenerator proposes MVP ideas from hackathon trends.
type IdeaGenerator struct {
	gen Generator
}

func NewIdeaGenerator(gen Generator) *IdeaGenerator {
	return &IdeaGenerator{gen: gen}
}

// GenerateIdeas asks the generator for n ideas. When no generator is
// configured or its answer cannot be decoded, ideas are derived
// deterministically from the trends instead.
func (g *IdeaGenerator) GenerateIdeas(ctx context.Context, h *model.Hackathon, n int) []Idea {
	if n <= 0 {
		n = 5
	}
	trends := AnalyzeTrends(h)

	if g == nil || g.gen == nil {
		zap.L().Info("idea generator disabled, using trend-based ideas")
		return FallbackIdeas(trends, n)
	}

	resp, err := g.gen.Generate(ctx, ideasPrompt(h, trends, n))
	if err != nil {
		zap.L().Error("idea generation failed", zap.Error(err))
		return FallbackIdeas(trends, n)
	}

	ideas, err := parseIdeas(resp)
	if err != nil || len(ideas) == 0 {
		zap.L().Warn("idea response unusable, using trend-based ideas", zap.Error(err))
		return FallbackIdeas(trends, n)
	}
	if len(ideas) > n {
		ideas = ideas[:n]
	}
	zap.L().Info("generated ideas", zap.Int("count", len(ideas)))
	return ideas
}

func parseIdeas(resp string) ([]Idea, error) {
	var payload struct {
		Ideas []Idea `json:"ideas"`
	}
	span := []byte(jsonSpan(strings.TrimSpace(resp)))
	if err := json.Unmarshal(span, &payload); err != nil {
		if err5 := json5.Unmarshal(span, &payload); err5 != nil {
			return nil, err
		}
	}
	var out []Idea
	for _, idea := range payload.Ideas {
		if strings.TrimSpace(idea.Name) != "" {
			out = append(out, idea)
		}
	}
	return out, nil
}

var defaultDomains = []string{"productivity", "education", "healthcare", "environment", "accessibility"}

// FallbackIdeas combines the leading technologies with the leading problem
// domains. The output depends only on trends and n.
func FallbackIdeas(t Trends, n int) []Idea {
	domains := make([]string, 0, len(t.TopDomains))
	for _, d := range t.TopDomains {
		domains = append(domains, d.Name)
	}
	for _, d := range defaultDomains {
		if len(domains) >= n {
			break
		}
		if !contains(domains, d) {
			domains = append(domains, d)
		}
	}

	techs := make([]string, 0, len(t.TopTechnologies))
	for _, c := range t.TopTechnologies {
		techs = append(techs, c.Name)
	}
	if len(techs) == 0 {
		techs = []string{"python", "react"}
	}

	ideas := make([]Idea, 0, n)
	for i := 0; i < n; i++ {
		domain := domains[i%len(domains)]
		stack := []string{techs[i%len(techs)]}
		if len(techs) > 1 {
			stack = append(stack, techs[(i+1)%len(techs)])
		}
		if i < len(t.TechCombinations) {
			stack = []string{t.TechCombinations[i].A, t.TechCombinations[i].B}
		}
		label := titleCase(strings.ReplaceAll(domain, "_", " "))

		ideas = append(ideas, Idea{
			Name:        fmt.Sprintf("%s Copilot", label),
			Tagline:     fmt.Sprintf("An AI assistant for %s built on %s", strings.ReplaceAll(domain, "_", " "), strings.Join(stack, " + ")),
			Description: fmt.Sprintf("Combines %s, popular among this hackathon's projects, to automate a recurring %s task end to end.", strings.Join(stack, " and "), strings.ReplaceAll(domain, "_", " ")),
			TechStack:   stack,
			MVPScope:    "A single workflow with one data source, a model call, and a minimal web UI.",
			KeyFeatures: []string{"Guided onboarding", "AI-generated recommendations", "Progress dashboard"},
		})
	}
	return ideas
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func ideasPrompt(h *model.Hackathon, t Trends, n int) string {
	var techs, domains, combos []string
	for i, c := range t.TopTechnologies {
		if i == 5 {
			break
		}
		techs = append(techs, fmt.Sprintf("%s (%d)", c.Name, c.Count))
	}
	for _, d := range t.TopDomains {
		domains = append(domains, fmt.Sprintf("%s (%d)", d.Name, d.Count))
	}
	for i, p := range t.TechCombinations {
		if i == 3 {
			break
		}
		combos = append(combos, p.A+"+"+p.B)
	}

	type summary struct {
		Name         string   `json:"name"`
		Technologies []string `json:"technologies"`
		Description  string   `json:"description"`
	}
	var samples []summary
	for i, p := range h.Projects {
		if i == 5 {
			break
		}
		desc := p.Description
		if r := []rune(desc); len(r) > 200 {
			desc = string(r[:200])
		}
		if desc == "" {
			desc = "No description"
		}
		samples = append(samples, summary{Name: p.Name, Technologies: p.Tags, Description: desc})
	}
	sampleJSON, _ := json.MarshalIndent(samples, "", "  ")

	return fmt.Sprintf(`Based on the analysis of %s with %d projects, generate %d innovative MVP ideas.

TREND ANALYSIS:
- Top Technologies: %s
- Top Problem Domains: %s
- Popular Tech Combinations: %s

SAMPLE WINNING PROJECTS:
%s

Generate %d NEW MVP ideas that:
1. Combine trending technologies in novel ways
2. Address underserved problem areas
3. Have clear commercial potential
4. Are technically feasible for a hackathon team
5. Leverage AI/ML capabilities innovatively

Respond with JSON of this shape:
{"ideas": [{"name": "", "tagline": "", "description": "", "problem_statement": "", "target_users": "",
"key_features": [], "tech_stack": [], "revenue_model": "", "mvp_scope": "", "unique_value": "",
"market_size": "", "implementation_steps": [], "potential_challenges": [], "growth_potential": "",
"ai_integration": ""}]}

Be creative but realistic. Focus on ideas that haven't been done in this hackathon.
Only return valid JSON, no additional text.
`, h.Name, t.TotalProjects, n, strings.Join(techs, ", "), strings.Join(domains, ", "), strings.Join(combos, ", "), sampleJSON, n)
}
