package dice

import (
	"fmt"
	"sync"

	"github.com/justinian/dice"
)

const (
	MinFace = 1
	MaxFace = 6
)

// Roller produces one die face in [MinFace, MaxFace] per call.
type Roller interface {
	Roll() int
}

// Standard rolls a fair six-sided die.
type Standard struct{}

func (Standard) Roll() int {
	result, _, err := dice.Roll("1d6")
	if err != nil {
		// "1d6" is a constant expression; the parser cannot reject it.
		panic(fmt.Sprintf("dice: roll 1d6: %v", err))
	}
	return result.Int()
}

// Sequence replays a fixed list of faces in call order. Tests use it to make
// rounds reproducible.
type Sequence struct {
	mu     sync.Mutex
	faces  []int
	cursor int
}

func NewSequence(faces ...int) *Sequence {
	return &Sequence{faces: append([]int(nil), faces...)}
}

func (s *Sequence) Roll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.faces) {
		panic(fmt.Sprintf("dice: sequence exhausted after %d rolls", len(s.faces)))
	}
	face := s.faces[s.cursor]
	s.cursor++
	return face
}

// Remaining reports how many faces have not been consumed yet.
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.faces) - s.cursor
}
