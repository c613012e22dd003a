package grading

import (
	"context"
	"fmt"

	"github.com/pickline/aggregator/internal/domain/matchresult"
	"github.com/pickline/aggregator/internal/domain/prediction"
	"github.com/pickline/aggregator/internal/platform/logging"
)

// Grader grades every ungraded prediction attached to a settled match,
// persisting the outcome so the HTTP read surface and the scoring engine
// never recompute it.
type Grader struct {
	predictions prediction.Repository
	logger      *logging.Logger
}

func NewGrader(predictions prediction.Repository, logger *logging.Logger) *Grader {
	return &Grader{predictions: predictions, logger: logger}
}

// GradeMatch grades all ungraded predictions for result.MatchID. It does
// not fail the whole batch if one pick's side/value combination cannot be
// graded (a malformed scrape); that pick is logged and skipped so the rest
// of the match still settles.
func (g *Grader) GradeMatch(ctx context.Context, result matchresult.Result) (graded int, err error) {
	picks, err := g.predictions.ListUngraded(ctx, result.MatchID)
	if err != nil {
		return 0, fmt.Errorf("grader: list ungraded for match %s: %w", result.MatchID, err)
	}

	for _, p := range picks {
		grade, gradeErr := g.gradeOne(p, result)
		if gradeErr != nil {
			g.logger.Warn("grader: skipping pick that could not be graded",
				"prediction_id", p.ID,
				"pick_type", string(p.PickType),
				"error", gradeErr,
			)
			continue
		}
		if err := g.predictions.RecordGrade(ctx, p.ID, grade, p.Score); err != nil {
			return graded, fmt.Errorf("grader: record grade for prediction %s: %w", p.ID, err)
		}
		graded++
	}
	return graded, nil
}

func (g *Grader) gradeOne(p prediction.NormalizedPrediction, result matchresult.Result) (prediction.Grade, error) {
	if p.PickType == prediction.PickParlay {
		return GradeParlay(), nil
	}
	return Grade(p, result)
}
