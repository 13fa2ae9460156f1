package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Analyzer produces project analyses. A nil generator disables it.
type Analyzer struct {
	gen Generator
}

func New(gen Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// Enabled reports whether a generator is configured.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.gen != nil
}

// AnalyzeProject extracts the write-up sections of pageHTML and asks the
// generator for a structured analysis. It returns (nil, nil) when the page
// has no recognizable sections. A provider failure is returned as an error;
// responses that cannot be decoded produce a KindFallback result instead.
func (a *Analyzer) AnalyzeProject(ctx context.Context, pageHTML, projectName string) (*AnalysisResult, error) {
	if !a.Enabled() {
		return nil, ErrNoGenerator
	}
	log := zap.L().With(zap.String("project", projectName))

	sections := ExtractSections(pageHTML)
	if len(sections) == 0 {
		log.Warn("no project sections found")
		return nil, nil
	}

	resp, err := a.gen.Generate(ctx, projectPrompt(projectName, sections))
	if err != nil {
		log.Error("analysis request failed", zap.Error(err))
		return nil, eris.Wrap(err, "analyzer: generate")
	}

	result := parseAnalysis(resp, sections)
	if result.Kind == KindFallback {
		log.Warn("analysis degraded to sections", zap.String("reason", result.Error))
	} else {
		log.Info("analyzed project")
	}
	return result, nil
}

// Enrich implements the extractor's enrichment hook.
func (a *Analyzer) Enrich(ctx context.Context, pageHTML, projectName string) (string, error) {
	r, err := a.AnalyzeProject(ctx, pageHTML, projectName)
	if err != nil {
		return "", err
	}
	return EnhancedDescription(r), nil
}

func projectPrompt(name string, sections Sections) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this hackathon project and provide a structured summary:\n\nProject Name: %s\n\nProject Sections:\n", name)
	for _, s := range sections {
		fmt.Fprintf(&b, "\n%s: %s\n", Label(s.Key), s.Text)
	}
	b.WriteString(analysisSchema)
	return b.String()
}

const analysisSchema = `
Please provide a comprehensive JSON analysis with the following structure:
{
    "summary": "A concise 2-3 sentence summary of what this project does",
    "detailed_description": "A detailed 4-5 sentence explanation of the project's functionality, architecture, and implementation approach",
    "key_technologies": ["list", "of", "main", "technologies", "used"],
    "technical_architecture": {
        "frontend": "Description of frontend stack and approach",
        "backend": "Description of backend services and APIs",
        "database": "Data storage and management approach",
        "deployment": "How the project is deployed/hosted",
        "external_services": ["List of external APIs or services used"]
    },
    "innovation_analysis": {
        "level": "high/medium/low",
        "novel_aspects": ["List of innovative features or approaches"],
        "technical_breakthroughs": "Any significant technical achievements",
        "unique_value_proposition": "What makes this different from existing solutions"
    },
    "market_analysis": {
        "problem_solved": "Detailed description of the problem being addressed",
        "target_audience": "Specific user segments and demographics",
        "market_size": "Potential market size assessment",
        "commercial_potential": "high/medium/low",
        "monetization_strategy": "Potential ways to monetize this solution",
        "competitors": ["List of potential competitors or similar solutions"],
        "competitive_advantages": ["Key differentiators from competitors"]
    },
    "implementation_quality": {
        "technical_complexity": "high/medium/low",
        "code_quality_indicators": ["Observable quality metrics like testing, documentation"],
        "scalability_considerations": "How well the solution could scale",
        "security_considerations": "Security measures and potential vulnerabilities"
    },
    "social_impact": {
        "level": "high/medium/low",
        "beneficiaries": "Who benefits from this solution",
        "potential_reach": "How many people could be impacted",
        "sustainability": "Long-term viability and impact"
    },
    "key_features": ["Comprehensive", "list", "of", "main", "features"],
    "future_potential": {
        "growth_opportunities": ["Ways this project could expand"],
        "technical_improvements": ["Suggested technical enhancements"],
        "feature_roadmap": ["Potential future features"]
    },
    "categories": ["fintech", "healthtech", "edtech", "etc"],
    "overall_assessment": {
        "strengths": ["Key strengths of the project"],
        "weaknesses": ["Areas for improvement"],
        "opportunities": ["Market or technical opportunities"],
        "threats": ["Potential challenges or risks"]
    }
}

Provide a thorough, insightful analysis. Only return valid JSON, no additional text.
`
