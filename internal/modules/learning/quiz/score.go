package quiz

import "math"

// Score is round(correct/total*100), or 0 when nothing was answered.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func (p Policy) Passed(score int) bool {
	return score >= p.PassThreshold
}

// TierFor returns the first tier whose MinScore the score meets.
func (p Policy) TierFor(score int) Tier {
	for _, t := range p.Tiers {
		if score >= t.MinScore {
			return t
		}
	}
	if len(p.Tiers) > 0 {
		return p.Tiers[len(p.Tiers)-1]
	}
	return Tier{Name: "needs_review"}
}

type Result struct {
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
	Correct int  `json:"correctAnswers"`
	Total   int  `json:"totalAnswered"`
	Tier    Tier `json:"tier"`
}
