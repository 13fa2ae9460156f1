package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/titanous/json5"
	"go.uber.org/zap"

	"hackinsight/internal/model"
)

// HackathonSelector picks the most promising hackathon from search results.
type HackathonSelector struct {
	gen Generator
}

func NewHackathonSelector(gen Generator) *HackathonSelector {
	return &HackathonSelector{gen: gen}
}

// Select returns the index of the chosen candidate and the reasoning. It
// falls back to the candidate with the most participants when the
// generator is unavailable or its answer is unusable. ok is false only when
// there are no candidates.
func (s *HackathonSelector) Select(ctx context.Context, candidates []model.HackathonSearchResult) (idx int, reasoning string, ok bool) {
	if len(candidates) == 0 {
		return 0, "", false
	}
	if s == nil || s.gen == nil {
		i := mostParticipants(candidates)
		return i, "Selected the hackathon with the most participants.", true
	}

	resp, err := s.gen.Generate(ctx, selectionPrompt(candidates))
	if err != nil {
		zap.L().Warn("hackathon selection failed", zap.Error(err))
		return mostParticipants(candidates), "Selection request failed; picked the hackathon with the most participants.", true
	}

	var choice struct {
		Choice    int    `json:"choice"`
		Reasoning string `json:"reasoning"`
	}
	span := []byte(jsonSpan(resp))
	if err := json.Unmarshal(span, &choice); err != nil {
		if err := json5.Unmarshal(span, &choice); err != nil {
			zap.L().Warn("hackathon selection unparseable", zap.String("response", resp))
			return mostParticipants(candidates), "Could not read the selection; picked the hackathon with the most participants.", true
		}
	}
	if choice.Choice < 1 || choice.Choice > len(candidates) {
		zap.L().Warn("hackathon selection out of range", zap.Int("choice", choice.Choice))
		return mostParticipants(candidates), "Selection was out of range; picked the hackathon with the most participants.", true
	}
	return choice.Choice - 1, choice.Reasoning, true
}

func mostParticipants(c []model.HackathonSearchResult) int {
	best, bestN := 0, -1
	for i, r := range c {
		if r.Participants != nil && *r.Participants > bestN {
			best, bestN = i, *r.Participants
		}
	}
	return best
}

func selectionPrompt(c []model.HackathonSearchResult) string {
	var b strings.Builder
	b.WriteString("You are choosing one recent AI hackathon whose projects are the most useful to study for MVP ideas.\n")
	b.WriteString("Prefer larger events with substantial prizes and clear AI focus.\n\nCandidates:\n")
	for i, r := range c {
		participants := "N/A"
		if r.Participants != nil {
			participants = fmt.Sprint(*r.Participants)
		}
		fmt.Fprintf(&b, "%d. %s | participants: %s | prizes: %s | %s\n", i+1, r.Name, participants, r.Prizes, r.Description)
	}
	b.WriteString("\nRespond with JSON only: {\"choice\": <candidate number>, \"reasoning\": \"<one or two sentences>\"}\n")
	return b.String()
}
