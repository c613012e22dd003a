package grading

import (
	"testing"
	"time"

	"github.com/pickline/aggregator/internal/domain/matchresult"
	"github.com/pickline/aggregator/internal/domain/prediction"
)

func TestGrade_Moneyline(t *testing.T) {
	result := matchresult.Derive("m1", 100, 95, time.Now())
	homePick := prediction.NormalizedPrediction{PickType: prediction.PickMoneyline, Side: prediction.SideHome}
	awayPick := prediction.NormalizedPrediction{PickType: prediction.PickMoneyline, Side: prediction.SideAway}

	grade, err := Grade(homePick, result)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("home moneyline: grade=%v err=%v, want win/nil", grade, err)
	}
	grade, err = Grade(awayPick, result)
	if err != nil || grade != prediction.GradeLoss {
		t.Fatalf("away moneyline: grade=%v err=%v, want loss/nil", grade, err)
	}
}

func TestGrade_Moneyline_TieIsPushOrWinOnDraw(t *testing.T) {
	result := matchresult.Derive("m1", 100, 100, time.Now())

	homePick := prediction.NormalizedPrediction{PickType: prediction.PickMoneyline, Side: prediction.SideHome}
	grade, err := Grade(homePick, result)
	if err != nil || grade != prediction.GradePush {
		t.Fatalf("tied home moneyline: grade=%v err=%v, want push/nil", grade, err)
	}

	awayPick := prediction.NormalizedPrediction{PickType: prediction.PickMoneyline, Side: prediction.SideAway}
	grade, err = Grade(awayPick, result)
	if err != nil || grade != prediction.GradePush {
		t.Fatalf("tied away moneyline: grade=%v err=%v, want push/nil", grade, err)
	}

	drawPick := prediction.NormalizedPrediction{PickType: prediction.PickMoneyline, Side: prediction.SideDraw}
	grade, err = Grade(drawPick, result)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("tied draw moneyline: grade=%v err=%v, want win/nil", grade, err)
	}

	decisive := matchresult.Derive("m2", 100, 95, time.Now())
	grade, err = Grade(drawPick, decisive)
	if err != nil || grade != prediction.GradeLoss {
		t.Fatalf("non-drawn draw moneyline: grade=%v err=%v, want loss/nil", grade, err)
	}
}

func TestGrade_Spread(t *testing.T) {
	result := matchresult.Derive("m1", 100, 97, time.Now()) // home wins by 3

	favoriteCovers := prediction.NormalizedPrediction{PickType: prediction.PickSpread, Side: prediction.SideHome, Value: -2.5, HasValue: true}
	grade, err := Grade(favoriteCovers, result)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("home -2.5 with margin 3: grade=%v err=%v, want win", grade, err)
	}

	favoriteFailsToCover := prediction.NormalizedPrediction{PickType: prediction.PickSpread, Side: prediction.SideHome, Value: -3.5, HasValue: true}
	grade, err = Grade(favoriteFailsToCover, result)
	if err != nil || grade != prediction.GradeLoss {
		t.Fatalf("home -3.5 with margin 3: grade=%v err=%v, want loss", grade, err)
	}

	underdogCovers := prediction.NormalizedPrediction{PickType: prediction.PickSpread, Side: prediction.SideAway, Value: 3.5, HasValue: true}
	grade, err = Grade(underdogCovers, result)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("away +3.5 with margin 3: grade=%v err=%v, want win", grade, err)
	}

	exactCover := prediction.NormalizedPrediction{PickType: prediction.PickSpread, Side: prediction.SideHome, Value: -3.0, HasValue: true}
	grade, err = Grade(exactCover, result)
	if err != nil || grade != prediction.GradePush {
		t.Fatalf("home -3.0 with margin 3: grade=%v err=%v, want push", grade, err)
	}
}

func TestGrade_SpreadMissingValueIsVoid(t *testing.T) {
	result := matchresult.Derive("m1", 100, 97, time.Now())
	pick := prediction.NormalizedPrediction{PickType: prediction.PickSpread, Side: prediction.SideHome, HasValue: false}
	grade, err := Grade(pick, result)
	if err != nil || grade != prediction.GradeVoid {
		t.Fatalf("missing spread value: grade=%v err=%v, want void/nil", grade, err)
	}
}

func TestGrade_OverUnder(t *testing.T) {
	result := matchresult.Derive("m1", 110, 100, time.Now()) // total 210

	over := prediction.NormalizedPrediction{PickType: prediction.PickOverUnder, Side: prediction.SideOver, Value: 205, HasValue: true}
	grade, err := Grade(over, result)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("over 205 with total 210: grade=%v err=%v, want win", grade, err)
	}

	under := prediction.NormalizedPrediction{PickType: prediction.PickOverUnder, Side: prediction.SideUnder, Value: 205, HasValue: true}
	grade, err = Grade(under, result)
	if err != nil || grade != prediction.GradeLoss {
		t.Fatalf("under 205 with total 210: grade=%v err=%v, want loss", grade, err)
	}

	exact := prediction.NormalizedPrediction{PickType: prediction.PickOverUnder, Side: prediction.SideOver, Value: 210, HasValue: true}
	grade, err = Grade(exact, result)
	if err != nil || grade != prediction.GradePush {
		t.Fatalf("over 210 with total 210: grade=%v err=%v, want push", grade, err)
	}
}

func TestGradeProp(t *testing.T) {
	grade, err := GradeProp(prediction.SideYes, prediction.SideYes)
	if err != nil || grade != prediction.GradeWin {
		t.Fatalf("yes/yes: grade=%v err=%v, want win", grade, err)
	}
	grade, err = GradeProp(prediction.SideYes, prediction.SideNo)
	if err != nil || grade != prediction.GradeLoss {
		t.Fatalf("yes/no: grade=%v err=%v, want loss", grade, err)
	}
}

func TestGradeParlay(t *testing.T) {
	if GradeParlay() != prediction.GradeVoid {
		t.Fatal("parlay must always grade void at its own row")
	}
}
