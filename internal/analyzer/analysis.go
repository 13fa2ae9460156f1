package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/titanous/json5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind tags how an AnalysisResult was produced.
type Kind string

const (
	// KindStructured results were decoded from the provider's JSON.
	KindStructured Kind = "structured"
	// KindFallback results were built from the page sections alone.
	KindFallback Kind = "fallback"
)

type TechnicalArchitecture struct {
	Frontend         string   `json:"frontend,omitempty"`
	Backend          string   `json:"backend,omitempty"`
	Database         string   `json:"database,omitempty"`
	Deployment       string   `json:"deployment,omitempty"`
	ExternalServices []string `json:"external_services,omitempty"`
}

type InnovationAnalysis struct {
	Level                  string   `json:"level,omitempty"`
	NovelAspects           []string `json:"novel_aspects,omitempty"`
	TechnicalBreakthroughs string   `json:"technical_breakthroughs,omitempty"`
	UniqueValueProposition string   `json:"unique_value_proposition,omitempty"`
}

type MarketAnalysis struct {
	ProblemSolved         string   `json:"problem_solved,omitempty"`
	TargetAudience        string   `json:"target_audience,omitempty"`
	MarketSize            string   `json:"market_size,omitempty"`
	CommercialPotential   string   `json:"commercial_potential,omitempty"`
	MonetizationStrategy  string   `json:"monetization_strategy,omitempty"`
	Competitors           []string `json:"competitors,omitempty"`
	CompetitiveAdvantages []string `json:"competitive_advantages,omitempty"`
}

type ImplementationQuality struct {
	TechnicalComplexity       string   `json:"technical_complexity,omitempty"`
	CodeQualityIndicators     []string `json:"code_quality_indicators,omitempty"`
	ScalabilityConsiderations string   `json:"scalability_considerations,omitempty"`
	SecurityConsiderations    string   `json:"security_considerations,omitempty"`
}

type SocialImpact struct {
	Level          string `json:"level,omitempty"`
	Beneficiaries  string `json:"beneficiaries,omitempty"`
	PotentialReach string `json:"potential_reach,omitempty"`
	Sustainability string `json:"sustainability,omitempty"`
}

type FuturePotential struct {
	GrowthOpportunities   []string `json:"growth_opportunities,omitempty"`
	TechnicalImprovements []string `json:"technical_improvements,omitempty"`
	FeatureRoadmap        []string `json:"feature_roadmap,omitempty"`
}

// Assessment is a SWOT summary.
type Assessment struct {
	Strengths     []string `json:"strengths,omitempty"`
	Weaknesses    []string `json:"weaknesses,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
	Threats       []string `json:"threats,omitempty"`
}

// AnalysisResult is the analysis of one project. Every schema field is
// optional. Fallback results carry the raw provider text and the reason the
// structured decode failed.
type AnalysisResult struct {
	Kind Kind `json:"-"`

	Summary               string                 `json:"summary,omitempty"`
	DetailedDescription   string                 `json:"detailed_description,omitempty"`
	KeyTechnologies       []string               `json:"key_technologies,omitempty"`
	TechnicalArchitecture *TechnicalArchitecture `json:"technical_architecture,omitempty"`
	Innovation            *InnovationAnalysis    `json:"innovation_analysis,omitempty"`
	Market                *MarketAnalysis        `json:"market_analysis,omitempty"`
	Implementation        *ImplementationQuality `json:"implementation_quality,omitempty"`
	SocialImpact          *SocialImpact          `json:"social_impact,omitempty"`
	KeyFeatures           []string               `json:"key_features,omitempty"`
	FuturePotential       *FuturePotential       `json:"future_potential,omitempty"`
	Categories            []string               `json:"categories,omitempty"`
	Assessment            *Assessment            `json:"overall_assessment,omitempty"`

	Sections    Sections `json:"-"`
	RawResponse string   `json:"-"`
	Error       string   `json:"-"`
}

// commonTechnologies are scanned for in "How we built it" when the
// provider response cannot be decoded.
var commonTechnologies = []string{
	"react", "python", "javascript", "node.js", "flask", "express",
	"mongodb", "postgresql", "mysql", "aws", "firebase", "docker",
}

// parseAnalysis decodes a provider response, falling back to a result built
// from sections when the response is empty or not JSON.
func parseAnalysis(response string, sections Sections) *AnalysisResult {
	response = strings.TrimSpace(response)
	if response == "" {
		return fallbackAnalysis(sections, "", "empty response")
	}

	span := jsonSpan(response)
	var out AnalysisResult
	err := json.Unmarshal([]byte(span), &out)
	if err != nil {
		var lenient AnalysisResult
		if err5 := json5.Unmarshal([]byte(span), &lenient); err5 == nil {
			out, err = lenient, nil
		}
	}
	if err != nil {
		return fallbackAnalysis(sections, response, fmt.Sprintf("JSON parsing failed: %v", err))
	}

	out.Kind = KindStructured
	out.Sections = sections
	return &out
}

func fallbackAnalysis(sections Sections, raw, reason string) *AnalysisResult {
	summary := sections.Get(SectionWhatItDoes)
	if summary == "" {
		summary = sections.Get(SectionInspiration)
	}
	if summary == "" {
		summary = "No summary available"
	}

	var techs []string
	if built := strings.ToLower(sections.Get(SectionHowBuilt)); built != "" {
		for _, t := range commonTechnologies {
			if strings.Contains(built, t) {
				techs = append(techs, t)
			}
		}
	}

	return &AnalysisResult{
		Kind:            KindFallback,
		Summary:         summary,
		KeyTechnologies: techs,
		Sections:        sections,
		RawResponse:     raw,
		Error:           reason,
	}
}

// jsonSpan returns the first balanced {...} span of s, ignoring braces
// inside string literals. Without one, s is returned unchanged.
func jsonSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// titleCase builds a Caser per call; Casers are stateful.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// EnhancedDescription renders an analysis as Markdown. A nil result yields "".
func EnhancedDescription(r *AnalysisResult) string {
	if r == nil {
		return ""
	}

	var parts []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, fmt.Sprintf("**%s**: %s", label, value))
		}
	}
	list := func(label string, items []string, indent string) {
		if len(items) == 0 {
			return
		}
		lines := make([]string, len(items))
		for i, it := range items {
			lines[i] = indent + "- " + it
		}
		parts = append(parts, fmt.Sprintf("**%s**:\n%s", label, strings.Join(lines, "\n")))
	}

	add("Summary", r.Summary)
	add("Detailed Description", r.DetailedDescription)

	if m := r.Market; m != nil {
		add("Problem Addressed", m.ProblemSolved)
		add("Target Audience", m.TargetAudience)
		add("Commercial Potential", titleCase(m.CommercialPotential))
	}
	if in := r.Innovation; in != nil {
		add("Innovation Level", titleCase(in.Level))
		add("Unique Value", in.UniqueValueProposition)
	}
	if a := r.TechnicalArchitecture; a != nil {
		var arch []string
		for _, kv := range [][2]string{
			{"Frontend", a.Frontend},
			{"Backend", a.Backend},
			{"Database", a.Database},
			{"Deployment", a.Deployment},
			{"External Services", strings.Join(a.ExternalServices, ", ")},
		} {
			if kv[1] != "" {
				arch = append(arch, kv[0]+": "+kv[1])
			}
		}
		list("Technical Architecture", arch, "  ")
	}
	list("Key Features", r.KeyFeatures, "  ")
	if r.Kind == KindFallback && len(r.KeyTechnologies) > 0 {
		add("Technologies", strings.Join(r.KeyTechnologies, ", "))
	}
	if q := r.Implementation; q != nil {
		add("Technical Complexity", titleCase(q.TechnicalComplexity))
		add("Scalability", q.ScalabilityConsiderations)
	}
	if s := r.SocialImpact; s != nil {
		add("Social Impact", titleCase(s.Level))
		add("Potential Reach", s.PotentialReach)
	}
	if a := r.Assessment; a != nil {
		var swot []string
		for _, kv := range []struct {
			label string
			items []string
		}{
			{"Strengths", a.Strengths},
			{"Weaknesses", a.Weaknesses},
			{"Opportunities", a.Opportunities},
			{"Threats", a.Threats},
		} {
			if len(kv.items) == 0 {
				continue
			}
			lines := make([]string, len(kv.items))
			for i, it := range kv.items {
				lines[i] = "    - " + it
			}
			swot = append(swot, fmt.Sprintf("  **%s**:\n%s", kv.label, strings.Join(lines, "\n")))
		}
		if len(swot) > 0 {
			parts = append(parts, "**SWOT Analysis**:\n"+strings.Join(swot, "\n"))
		}
	}
	if len(r.Categories) > 0 {
		add("Categories", strings.Join(r.Categories, ", "))
	}

	return strings.Join(parts, "\n\n")
}
