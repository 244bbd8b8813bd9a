package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/yahtzee-backend/internal/dice"
)

var ErrNoRollsRemaining = errors.New("no rolls remaining")
var ErrNoDiceToScore = errors.New("no dice to score")
var ErrInvalidPosition = errors.New("invalid dice position")
var ErrUnknownCategory = errors.New("unknown category")
var ErrUnsupportedCommand = errors.New("unsupported command")

const RollsPerRound = 3

// AllPositions is what Roll uses when no dice are held.
var AllPositions = []int{0, 1, 2, 3, 4}

type Phase string

const (
	PhaseFresh      Phase = "fresh"
	PhaseInProgress Phase = "inProgress"
)

// View is a copy of the round state for callers that only read it.
type View struct {
	Phase          Phase `json:"phase"`
	Dice           Dice  `json:"dice"`
	RollsRemaining int   `json:"rolls_remaining"`
}

// Engine runs one player's round: up to three rolls, then a commit to a
// category, which starts the next round. An Engine is not safe for
// concurrent use; give each round owner its own.
type Engine struct {
	roller         dice.Roller
	dice           Dice
	rollsRemaining int
}

func New(roller dice.Roller) *Engine {
	return &Engine{roller: roller, rollsRemaining: RollsPerRound}
}

// Roll rolls all five dice.
func (e *Engine) Roll() (Dice, error) {
	return e.Reroll(AllPositions)
}

// Reroll rolls only the given positions; every other die is held. Each call
// uses up one roll, even with no positions.
func (e *Engine) Reroll(positions []int) (Dice, error) {
	if e.rollsRemaining <= 0 {
		return e.dice, ErrNoRollsRemaining
	}

	var selected [NumDice]bool
	for _, p := range positions {
		if p < 0 || p >= NumDice {
			return e.dice, fmt.Errorf("%w: %d", ErrInvalidPosition, p)
		}
		selected[p] = true
	}

	for p, roll := range selected {
		if roll {
			e.dice[p] = e.roller.Roll()
		}
	}
	e.rollsRemaining--
	return e.dice, nil
}

// ScoreInto scores the current dice in c and resets the round. The score is
// not kept; accumulating it is up to the caller.
func (e *Engine) ScoreInto(c Category) (int, error) {
	if e.dice.Empty() {
		return 0, ErrNoDiceToScore
	}

	score, err := Score(c, e.dice)
	if err != nil {
		return 0, err
	}

	e.reset()
	return score, nil
}

func (e *Engine) reset() {
	e.dice = Dice{}
	e.rollsRemaining = RollsPerRound
}

func (e *Engine) Dice() Dice { return e.dice }

func (e *Engine) RollsRemaining() int { return e.rollsRemaining }

// Phase is fresh only until the first roll of a round. An empty reroll still
// spends a roll, so it moves the round along even though no dice show.
func (e *Engine) Phase() Phase {
	if e.dice.Empty() && e.rollsRemaining == RollsPerRound {
		return PhaseFresh
	}
	return PhaseInProgress
}

func (e *Engine) View() View {
	return View{Phase: e.Phase(), Dice: e.dice, RollsRemaining: e.rollsRemaining}
}

type CommandType string

const (
	CmdRoll   CommandType = "Roll"
	CmdReroll CommandType = "Reroll"
	CmdScore  CommandType = "Score"
)

/*
	CmdRoll   -> EvtDiceRolled
	CmdReroll -> EvtDiceRolled
	CmdScore  -> EvtCategoryScored -> EvtRoundStarted
*/

type Command struct {
	Type      CommandType
	Positions []int
	Category  Category
}

type EventType string

const (
	EvtDiceRolled     EventType = "DiceRolled"
	EvtCategoryScored EventType = "CategoryScored"
	EvtRoundStarted   EventType = "RoundStarted"
)

type Event struct {
	Type           EventType `json:"type"`
	Dice           Dice      `json:"dice"`
	RollsRemaining int       `json:"rolls_remaining"`
	Category       Category  `json:"category,omitempty"`
	Score          int       `json:"score"`
}

// Apply runs cmd against the engine and describes what happened. On error the
// engine is left untouched and no events are returned.
func (e *Engine) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdRoll, CmdReroll:
		positions := cmd.Positions
		if cmd.Type == CmdRoll {
			positions = AllPositions
		}
		d, err := e.Reroll(positions)
		if err != nil {
			return nil, err
		}
		return []Event{
			{Type: EvtDiceRolled, Dice: d, RollsRemaining: e.rollsRemaining},
		}, nil

	case CmdScore:
		// Capture the dice before ScoreInto clears them.
		committed := e.dice
		score, err := e.ScoreInto(cmd.Category)
		if err != nil {
			return nil, err
		}
		return []Event{
			{Type: EvtCategoryScored, Dice: committed, Category: cmd.Category, Score: score},
			{Type: EvtRoundStarted, RollsRemaining: e.rollsRemaining},
		}, nil

	default:
		return nil, ErrUnsupportedCommand
	}
}
