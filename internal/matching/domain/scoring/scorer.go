package scoring

import "context"

// SimilarityScorer rates how well a volunteer's skills match a task's
// text, returning a score in [0, 1]. Implementations may be remote
// services, local models or deterministic test stubs.
type SimilarityScorer interface {
	Score(ctx context.Context, skills []string, title, description string) (float64, error)
}

// SimilarityScorerFunc adapts a function to the SimilarityScorer interface.
type SimilarityScorerFunc func(ctx context.Context, skills []string, title, description string) (float64, error)

// Score calls the wrapped function.
func (f SimilarityScorerFunc) Score(ctx context.Context, skills []string, title, description string) (float64, error) {
	return f(ctx, skills, title, description)
}
