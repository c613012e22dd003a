// Package grading resolves each prediction against a settled match result:
// pure functions per pick type decide correctness, and Grader wires those
// functions to the persistence layer for the grading loop.
package grading

import (
	"fmt"

	"github.com/pickline/aggregator/internal/domain/matchresult"
	"github.com/pickline/aggregator/internal/domain/prediction"
)

// Grade resolves a single non-parlay prediction against a settled result.
// Parlay picks are handled by GradeParlay, which always voids the parlay's
// own row, and prop picks by GradeProp; Grade returns an error for both.
func Grade(p prediction.NormalizedPrediction, result matchresult.Result) (prediction.Grade, error) {
	switch p.PickType {
	case prediction.PickMoneyline:
		return gradeMoneyline(p, result)
	case prediction.PickSpread:
		return gradeSpread(p, result)
	case prediction.PickOverUnder:
		return gradeOverUnder(p, result)
	case prediction.PickProp:
		return "", fmt.Errorf("grading: prop picks are graded by GradeProp against a resolved outcome, not a match result")
	default:
		return "", fmt.Errorf("grading: pick type %q cannot be graded by Grade, use GradeParlay", p.PickType)
	}
}

// gradeMoneyline grades a pick-the-winner pick. A tied score pushes a
// home/away pick (no winner to back) but wins a draw pick (the drawn
// outcome is exactly what was backed).
func gradeMoneyline(p prediction.NormalizedPrediction, result matchresult.Result) (prediction.Grade, error) {
	switch p.Side {
	case prediction.SideHome:
		switch result.WinningSide {
		case "home":
			return prediction.GradeWin, nil
		case "draw":
			return prediction.GradePush, nil
		default:
			return prediction.GradeLoss, nil
		}
	case prediction.SideAway:
		switch result.WinningSide {
		case "away":
			return prediction.GradeWin, nil
		case "draw":
			return prediction.GradePush, nil
		default:
			return prediction.GradeLoss, nil
		}
	case prediction.SideDraw:
		if result.WinningSide == "draw" {
			return prediction.GradeWin, nil
		}
		return prediction.GradeLoss, nil
	default:
		return "", fmt.Errorf("grading: moneyline pick has unsupported side %q", p.Side)
	}
}

// gradeSpread grades a point-spread pick. Value is the line taken from the
// picked side's perspective (e.g. -3.5 backing a favorite, +3.5 backing an
// underdog); the pick covers when the picked side's margin plus the line
// is positive, pushes on exactly zero. A missing line can't be evaluated
// and voids rather than grading as a loss.
func gradeSpread(p prediction.NormalizedPrediction, result matchresult.Result) (prediction.Grade, error) {
	if !p.HasValue {
		return prediction.GradeVoid, nil
	}
	var sideMargin float64
	switch p.Side {
	case prediction.SideHome:
		sideMargin = float64(result.Margin)
	case prediction.SideAway:
		sideMargin = float64(-result.Margin)
	default:
		return "", fmt.Errorf("grading: spread pick has unsupported side %q", p.Side)
	}
	adjustedMargin := sideMargin + p.Value
	switch {
	case adjustedMargin > 0:
		return prediction.GradeWin, nil
	case adjustedMargin < 0:
		return prediction.GradeLoss, nil
	default:
		return prediction.GradePush, nil
	}
}

// gradeOverUnder grades a totals pick, pushing on an exact match of the
// combined score against the line.
func gradeOverUnder(p prediction.NormalizedPrediction, result matchresult.Result) (prediction.Grade, error) {
	if !p.HasValue {
		return prediction.GradeVoid, nil
	}
	total := float64(result.TotalPoints)
	switch p.Side {
	case prediction.SideOver:
		switch {
		case total > p.Value:
			return prediction.GradeWin, nil
		case total < p.Value:
			return prediction.GradeLoss, nil
		default:
			return prediction.GradePush, nil
		}
	case prediction.SideUnder:
		switch {
		case total < p.Value:
			return prediction.GradeWin, nil
		case total > p.Value:
			return prediction.GradeLoss, nil
		default:
			return prediction.GradePush, nil
		}
	default:
		return "", fmt.Errorf("grading: over/under pick has unsupported side %q", p.Side)
	}
}

// GradeProp grades a yes/no proposition pick against a resolved outcome.
// Props don't derive from the final score, so the actual outcome must be
// supplied by whatever resolved it (an adapter-specific prop feed, or
// manual operator entry) rather than computed from matchresult.Result.
func GradeProp(pickedSide prediction.Side, actual prediction.Side) (prediction.Grade, error) {
	switch pickedSide {
	case prediction.SideYes, prediction.SideNo:
		if pickedSide == actual {
			return prediction.GradeWin, nil
		}
		return prediction.GradeLoss, nil
	default:
		return "", fmt.Errorf("grading: prop pick has unsupported side %q", pickedSide)
	}
}

// GradeParlay grades a parlay pick. A parlay is never won or lost on its
// own row: correctness lives entirely in its legs, each a full prediction
// graded independently on its own pick type, so the parlay itself always
// voids.
func GradeParlay() prediction.Grade {
	return prediction.GradeVoid
}
