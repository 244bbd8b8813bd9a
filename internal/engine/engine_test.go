package engine

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/yahtzee-backend/internal/dice"
)

func containsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func rolledEngine(t *testing.T, faces ...int) *Engine {
	t.Helper()
	e := New(dice.NewSequence(faces...))
	if _, err := e.Roll(); err != nil {
		t.Fatalf("roll: %v", err)
	}
	return e
}

func TestRoll_ReturnsFiveFacesInRange(t *testing.T) {
	e := New(dice.Standard{})

	d, err := e.Roll()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i, face := range d {
		if face < 1 || face > 6 {
			t.Fatalf("position %d: face %d out of range", i, face)
		}
	}
	if e.RollsRemaining() != 2 {
		t.Fatalf("want 2 rolls remaining, got %d", e.RollsRemaining())
	}
}

func TestReroll_HoldsOmittedPositions(t *testing.T) {
	e := New(dice.NewSequence(
		3, 4, 5, 5, 2,
		5, 1, 3,
	))
	if _, err := e.Roll(); err != nil {
		t.Fatalf("first roll: %v", err)
	}

	d, err := e.Reroll([]int{0, 1, 4})
	if err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if want := (Dice{5, 1, 5, 5, 3}); d != want {
		t.Fatalf("got %v, want %v", d, want)
	}
}

func TestReroll_DecrementsByExactlyOne(t *testing.T) {
	cases := []struct {
		name      string
		positions []int
		consumed  int
	}{
		{name: "all", positions: AllPositions, consumed: 5},
		{name: "none", positions: []int{}, consumed: 0},
		{name: "nil", positions: nil, consumed: 0},
		{name: "single", positions: []int{2}, consumed: 1},
		{name: "duplicates roll once", positions: []int{1, 1, 3, 1}, consumed: 2},
		{name: "order independent", positions: []int{4, 0}, consumed: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seq := dice.NewSequence(6, 6, 6, 6, 6)
			e := New(seq)

			if _, err := e.Reroll(tc.positions); err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if e.RollsRemaining() != 2 {
				t.Fatalf("want 2 rolls remaining, got %d", e.RollsRemaining())
			}
			if used := 5 - seq.Remaining(); used != tc.consumed {
				t.Fatalf("want %d faces consumed, got %d", tc.consumed, used)
			}
		})
	}
}

func TestRoll_FourthRollFails(t *testing.T) {
	e := New(dice.Standard{})
	for i := 0; i < RollsPerRound; i++ {
		if _, err := e.Roll(); err != nil {
			t.Fatalf("roll %d: %v", i+1, err)
		}
	}
	before := e.Dice()

	_, err := e.Roll()
	if !errors.Is(err, ErrNoRollsRemaining) {
		t.Fatalf("want ErrNoRollsRemaining, got %v", err)
	}
	if e.RollsRemaining() != 0 || e.Dice() != before {
		t.Fatalf("failed roll changed state")
	}
}

func TestReroll_RejectsOutOfRangePosition(t *testing.T) {
	e := New(dice.NewSequence(1, 2))

	_, err := e.Reroll([]int{0, 5})
	if !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("want ErrInvalidPosition, got %v", err)
	}
	if e.RollsRemaining() != RollsPerRound || !e.Dice().Empty() {
		t.Fatalf("rejected roll changed state: %+v", e.View())
	}
}

func TestScoreInto_BeforeRollingFails(t *testing.T) {
	e := New(dice.Standard{})

	_, err := e.ScoreInto(CategoryChance)
	if !errors.Is(err, ErrNoDiceToScore) {
		t.Fatalf("want ErrNoDiceToScore, got %v", err)
	}
	if e.Phase() != PhaseFresh || e.RollsRemaining() != RollsPerRound {
		t.Fatalf("failed score changed state: %+v", e.View())
	}
}

func TestReroll_EmptyOnFreshRoundIsInProgress(t *testing.T) {
	e := New(dice.NewSequence())

	d, err := e.Reroll([]int{})
	if err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if !d.Empty() {
		t.Fatalf("want empty dice, got %v", d)
	}
	if e.Phase() != PhaseInProgress || e.RollsRemaining() != 2 {
		t.Fatalf("want inProgress with 2 rolls, got %+v", e.View())
	}

	if _, err := e.ScoreInto(CategoryChance); !errors.Is(err, ErrNoDiceToScore) {
		t.Fatalf("want ErrNoDiceToScore, got %v", err)
	}
	if e.Phase() != PhaseInProgress || e.RollsRemaining() != 2 {
		t.Fatalf("failed score changed state: %+v", e.View())
	}
}

func TestScoreInto_UnknownCategoryKeepsRound(t *testing.T) {
	e := rolledEngine(t, 1, 2, 3, 4, 5)

	_, err := e.ScoreInto(Category("bonus"))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("want ErrUnknownCategory, got %v", err)
	}
	if e.Dice() != (Dice{1, 2, 3, 4, 5}) || e.RollsRemaining() != 2 {
		t.Fatalf("rejected score changed state: %+v", e.View())
	}
}

func TestScoreInto_ResetsRound(t *testing.T) {
	cases := []struct {
		name     string
		faces    []int
		category Category
		score    int
	}{
		{name: "scoring commit", faces: []int{1, 2, 3, 4, 5}, category: CategoryChance, score: 15},
		{name: "zero commit", faces: []int{1, 2, 3, 4, 5}, category: CategoryYahtzee, score: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := rolledEngine(t, tc.faces...)

			score, err := e.ScoreInto(tc.category)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if score != tc.score {
				t.Fatalf("score: got %d, want %d", score, tc.score)
			}
			if e.RollsRemaining() != RollsPerRound || !e.Dice().Empty() || e.Phase() != PhaseFresh {
				t.Fatalf("round not reset: %+v", e.View())
			}
		})
	}
}

func TestScoreInto_NextRoundStartsFresh(t *testing.T) {
	e := New(dice.NewSequence(
		1, 1, 1, 1, 1,
		2, 2, 2, 2, 2,
		3, 3, 3, 3, 3,
		4, 5, 6, 1, 2,
	))
	for i := 0; i < RollsPerRound; i++ {
		if _, err := e.Roll(); err != nil {
			t.Fatalf("roll %d: %v", i+1, err)
		}
	}
	if _, err := e.ScoreInto(CategoryChance); err != nil {
		t.Fatalf("score: %v", err)
	}

	d, err := e.Roll()
	if err != nil {
		t.Fatalf("roll after score: %v", err)
	}
	if want := (Dice{4, 5, 6, 1, 2}); d != want {
		t.Fatalf("got %v, want %v", d, want)
	}
	if e.RollsRemaining() != 2 {
		t.Fatalf("want 2 rolls remaining, got %d", e.RollsRemaining())
	}
}

// A sparse first roll leaves the other positions empty; they add nothing to
// sums and are absent from face counts.
func TestScoreInto_SparseFirstRoll(t *testing.T) {
	cases := []struct {
		name     string
		category Category
		score    int
	}{
		{name: "chance sums rolled dice", category: CategoryChance, score: 7},
		{name: "fours", category: CategoryFours, score: 4},
		{name: "two distinct faces is not a yahtzee", category: CategoryYahtzee, score: 0},
		{name: "small straight needs five faces", category: CategorySmallStraight, score: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(dice.NewSequence(3, 4))
			d, err := e.Reroll([]int{1, 3})
			if err != nil {
				t.Fatalf("roll: %v", err)
			}
			if want := (Dice{0, 3, 0, 4, 0}); d != want {
				t.Fatalf("got %v, want %v", d, want)
			}

			score, err := e.ScoreInto(tc.category)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if score != tc.score {
				t.Fatalf("got %d, want %d", score, tc.score)
			}
		})
	}
}

func TestScoreInto_SparseSingleFaceIsYahtzee(t *testing.T) {
	e := New(dice.NewSequence(5, 5))
	if _, err := e.Reroll([]int{0, 2}); err != nil {
		t.Fatalf("roll: %v", err)
	}

	score, err := e.ScoreInto(CategoryYahtzee)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if score != 50 {
		t.Fatalf("got %d, want 50", score)
	}
}

func TestApply_RollEmitsDiceRolled(t *testing.T) {
	e := New(dice.NewSequence(2, 3, 4, 5, 6, 1))

	events, err := e.Apply(Command{Type: CmdRoll})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(events) != 1 || events[0].Type != EvtDiceRolled {
		t.Fatalf("want one DiceRolled event, got %+v", events)
	}
	if events[0].Dice != (Dice{2, 3, 4, 5, 6}) || events[0].RollsRemaining != 2 {
		t.Fatalf("unexpected event %+v", events[0])
	}

	events, err = e.Apply(Command{Type: CmdReroll, Positions: []int{0}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if events[0].Dice != (Dice{1, 3, 4, 5, 6}) || events[0].RollsRemaining != 1 {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestApply_ScoreEmitsScoredThenRoundStarted(t *testing.T) {
	e := rolledEngine(t, 2, 3, 4, 5, 6)

	events, err := e.Apply(Command{Type: CmdScore, Category: CategoryLargeStraight})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %+v", events)
	}
	scored := events[0]
	if scored.Type != EvtCategoryScored || scored.Score != 20 || scored.Dice != (Dice{2, 3, 4, 5, 6}) {
		t.Fatalf("unexpected scored event %+v", scored)
	}
	if !containsEvent(events, EvtRoundStarted) {
		t.Fatalf("expected EvtRoundStarted")
	}
}

func TestApply_PropagatesErrors(t *testing.T) {
	e := New(dice.Standard{})

	if _, err := e.Apply(Command{Type: CmdScore, Category: CategoryChance}); !errors.Is(err, ErrNoDiceToScore) {
		t.Fatalf("want ErrNoDiceToScore, got %v", err)
	}
	if _, err := e.Apply(Command{Type: "Pass"}); !errors.Is(err, ErrUnsupportedCommand) {
		t.Fatalf("want ErrUnsupportedCommand, got %v", err)
	}
}
