// Package application contains the task ranking engine.
package application

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	identityDomain "github.com/helpmatch/helpmatch/internal/identity/domain"
	"github.com/helpmatch/helpmatch/internal/matching/domain/scoring"
	"github.com/helpmatch/helpmatch/internal/tasks/domain/task"
)

const defaultConcurrency = 8

// RankedTask is one entry of a ranking result.
type RankedTask struct {
	Task *task.Task
	// DistanceKm is the great-circle distance between volunteer and
	// task, or +Inf when either coordinate is unknown.
	DistanceKm float64
	// Score is the composite relevance score, rounded to 3 decimals.
	Score float64
	// Similarity is the semantic component of the score.
	Similarity float64
}

// RankingEngine scores and orders candidate tasks for a volunteer.
//
// Each candidate combines the semantic similarity between the
// volunteer's skills and the task text with structural signals:
// priority, urgency, deadline proximity and distance. Candidates are
// evaluated concurrently; a failing similarity lookup degrades that
// candidate to its structural signals instead of failing the request.
type RankingEngine struct {
	scorer      scoring.SimilarityScorer
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// NewRankingEngine creates a ranking engine.
func NewRankingEngine(scorer scoring.SimilarityScorer, concurrency int, logger *slog.Logger) *RankingEngine {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingEngine{
		scorer:      scorer,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Rank scores all candidates and returns them ordered by descending
// score. The sort is stable: candidates with equal scores keep their
// input order. Callers supply the candidate set (open tasks not posted
// by the volunteer).
func (e *RankingEngine) Rank(ctx context.Context, volunteer *identityDomain.User, candidates []*task.Task) ([]RankedTask, error) {
	if len(candidates) == 0 {
		return []RankedTask{}, nil
	}

	skills := volunteer.Skills().Values()
	location := volunteer.Location()
	now := e.now().UTC()

	ranked := make([]RankedTask, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, candidate := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			similarity, err := e.scorer.Score(gctx, skills, candidate.Title(), candidate.Description())
			if err != nil {
				e.logger.Warn("similarity lookup failed, ranking on structural signals only",
					"task_id", candidate.ID(),
					"error", err,
				)
				similarity = 0
			}

			distance := scoring.UnknownDistance
			if location != nil {
				if taskLoc := candidate.Location(); taskLoc != nil {
					distance = location.DistanceKm(*taskLoc)
				}
			}

			score := similarity +
				scoring.LocationWeight(distance) +
				scoring.PriorityWeight(candidate.Priority()) +
				scoring.UrgencyWeight(candidate.Urgent()) +
				scoring.DeadlineWeight(candidate.Deadline(), now)

			ranked[i] = RankedTask{
				Task:       candidate,
				DistanceKm: distance,
				Score:      roundScore(score),
				Similarity: similarity,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	return ranked, nil
}

func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// RoundDistanceKm rounds a distance for display to 1 decimal place.
// Unknown (non-finite) distances pass through unchanged.
func RoundDistanceKm(distanceKm float64) float64 {
	if math.IsInf(distanceKm, 0) || math.IsNaN(distanceKm) {
		return distanceKm
	}
	return math.Round(distanceKm*10) / 10
}
