// Package matching scores candidate teammates against a subject profile,
// ranks them and chooses which candidate pool feeds the ranking.
package matching

import (
	"fmt"
	"math"

	"github.com/okian/crewmatch/internal/domain/model"
)

// Fixed weights of the compatibility formula.
const (
	skillWeight       = 40.0
	goalWeight        = 30.0
	goalPartialCredit = 10.0
	traitWeight       = 20.0
	diversityBonus    = 5.0
	traitSlots        = 4
	maxReasons        = 2
	maxScore          = 100
)

// Reason texts. Counts are filled in at evaluation time.
const (
	reasonSkillsFmt = "%d shared skills"
	reasonGoal      = "Same goal"
	reasonTraitsFmt = "%d matching traits"
	reasonDiversity = "Brings diverse perspective"
)

// Result is the compatibility of one candidate with the subject.
type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Score computes the compatibility of candidate with subject.
//
// Factors are evaluated in a fixed order (skills, goal, traits, branch) and
// reasons keep that order; only the first two are returned. Missing fields
// contribute the minimum for their factor.
func Score(subject, candidate model.Profile) Result {
	var (
		score   float64
		reasons = make([]string, 0, traitSlots)
	)

	overlap, denom := skillOverlap(subject.Skills, candidate.Skills)
	score += skillWeight * float64(overlap) / float64(denom)
	if overlap > 0 {
		reasons = append(reasons, fmt.Sprintf(reasonSkillsFmt, overlap))
	}

	if subject.Goal != "" && subject.Goal == candidate.Goal {
		score += goalWeight
		reasons = append(reasons, reasonGoal)
	} else {
		score += goalPartialCredit
	}

	matches := traitMatches(subject.Traits, candidate.Traits)
	score += traitWeight * float64(matches) / traitSlots
	if matches > 0 {
		reasons = append(reasons, fmt.Sprintf(reasonTraitsFmt, matches))
	}

	if subject.Branch != "" && candidate.Branch != "" && subject.Branch != candidate.Branch {
		score += diversityBonus
		reasons = append(reasons, reasonDiversity)
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	return Result{
		Score:   clamp(int(math.Round(score))),
		Reasons: reasons,
	}
}

// skillOverlap returns |a ∩ b| and max(|a|, |b|, 1), treating both as sets.
func skillOverlap(a, b []string) (overlap, denom int) {
	as := toSet(a)
	bs := toSet(b)
	for s := range as {
		if _, ok := bs[s]; ok {
			overlap++
		}
	}
	denom = max(len(as), len(bs), 1)
	return overlap, denom
}

func traitMatches(a, b model.Traits) int {
	as, bs := a.Slots(), b.Slots()
	n := 0
	for i := range as {
		if as[i] != "" && as[i] == bs[i] {
			n++
		}
	}
	return n
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		set[it] = struct{}{}
	}
	return set
}

func clamp(v int) int {
	return max(0, min(maxScore, v))
}
