package nav

import "strings"

// Scoring selects how frontier candidates are ranked.
type Scoring uint8

const (
	// ScoreShortest ranks a candidate by the commands needed to reach it.
	ScoreShortest Scoring = iota
	// ScoreHeuristic adds the candidate's heuristic distance to the goal,
	// biasing exploration towards the centre.
	ScoreHeuristic
)

// String returns the scoring name.
func (s Scoring) String() string {
	switch s {
	case ScoreShortest:
		return "shortest"
	case ScoreHeuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// Algorithm is an exploration variant: a coverage threshold in percent plus a
// candidate scoring rule. A zero threshold is the goals-only variant, which
// stops exploring as soon as the goal has been reached.
type Algorithm struct {
	ID       string
	Title    string
	Coverage float64
	Scoring  Scoring
}

// GoalsOnly reports whether the variant ignores coverage.
func (a Algorithm) GoalsOnly() bool {
	return a.Coverage <= 0
}

var algorithms = []Algorithm{
	{ID: "SHORT_100", Title: "Shortest first, 100% coverage", Coverage: 100, Scoring: ScoreShortest},
	{ID: "SHORT_90", Title: "Shortest first, 90% coverage", Coverage: 90, Scoring: ScoreShortest},
	{ID: "SHORT_80", Title: "Shortest first, 80% coverage", Coverage: 80, Scoring: ScoreShortest},
	{ID: "SHORT_70", Title: "Shortest first, 70% coverage", Coverage: 70, Scoring: ScoreShortest},
	{ID: "SHORT_GOALS", Title: "Shortest first, stop at goal", Coverage: 0, Scoring: ScoreShortest},
	{ID: "HEURISTIC_100", Title: "Goal-biased, 100% coverage", Coverage: 100, Scoring: ScoreHeuristic},
	{ID: "HEURISTIC_90", Title: "Goal-biased, 90% coverage", Coverage: 90, Scoring: ScoreHeuristic},
	{ID: "HEURISTIC_80", Title: "Goal-biased, 80% coverage", Coverage: 80, Scoring: ScoreHeuristic},
	{ID: "HEURISTIC_70", Title: "Goal-biased, 70% coverage", Coverage: 70, Scoring: ScoreHeuristic},
	{ID: "HEURISTIC_GOALS", Title: "Goal-biased, stop at goal", Coverage: 0, Scoring: ScoreHeuristic},
}

// DefaultAlgorithmID is used when no or an unknown variant is requested.
const DefaultAlgorithmID = "SHORT_80"

// Algorithms returns every exploration variant.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// LookupAlgorithm finds a variant by ID, case-insensitively.
func LookupAlgorithm(id string) (Algorithm, bool) {
	for _, a := range algorithms {
		if strings.EqualFold(a.ID, id) {
			return a, true
		}
	}
	return Algorithm{}, false
}

// AlgorithmOrDefault returns the named variant or SHORT_80.
func AlgorithmOrDefault(id string) Algorithm {
	if a, ok := LookupAlgorithm(id); ok {
		return a
	}
	a, _ := LookupAlgorithm(DefaultAlgorithmID)
	return a
}
