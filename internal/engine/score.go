package engine

import (
	"fmt"
	"slices"
)

const NumDice = 5

// Dice holds the five positions of a round. A zero entry is a position that
// has not been rolled since the last reset; it adds nothing to sums or counts.
type Dice [NumDice]int

func (d Dice) Empty() bool {
	return d == Dice{}
}

// Values returns the rolled faces in position order, skipping empty slots.
func (d Dice) Values() []int {
	values := make([]int, 0, NumDice)
	for _, face := range d {
		if face != 0 {
			values = append(values, face)
		}
	}
	return values
}

func (d Dice) Sum() int {
	total := 0
	for _, face := range d {
		total += face
	}
	return total
}

// Counts maps each rolled face to how many dice show it.
func (d Dice) Counts() map[int]int {
	counts := make(map[int]int, NumDice)
	for _, face := range d.Values() {
		counts[face]++
	}
	return counts
}

type scorer func(d Dice) int

var scorers = map[Category]scorer{
	CategoryChance:        Dice.Sum,
	CategoryYahtzee:       yahtzee,
	CategoryOnes:          sumOf(1),
	CategoryTwos:          sumOf(2),
	CategoryThrees:        sumOf(3),
	CategoryFours:         sumOf(4),
	CategoryFives:         sumOf(5),
	CategorySixes:         sumOf(6),
	CategoryPair:          topPairs(1),
	CategoryTwoPairs:      topPairs(2),
	CategoryThreeOfAKind:  ofAKind(3),
	CategoryFourOfAKind:   ofAKind(4),
	CategorySmallStraight: straight([]int{1, 2, 3, 4, 5}, 15),
	CategoryLargeStraight: straight([]int{2, 3, 4, 5, 6}, 20),
	CategoryFullHouse:     fullHouse,
}

// Score evaluates d against a single category. Unmet categories score 0.
func Score(c Category, d Dice) (int, error) {
	score, ok := scorers[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return score(d), nil
}

func yahtzee(d Dice) int {
	if len(d.Counts()) == 1 {
		return 50
	}
	return 0
}

func sumOf(face int) scorer {
	return func(d Dice) int {
		return face * d.Counts()[face]
	}
}

// topPairs scores twice the sum of the n highest faces showing at least twice.
// A face with four or five dice still counts as a single pair.
func topPairs(n int) scorer {
	return func(d Dice) int {
		var paired []int
		for face, count := range d.Counts() {
			if count >= 2 {
				paired = append(paired, face)
			}
		}
		if len(paired) < n {
			return 0
		}
		slices.Sort(paired)
		slices.Reverse(paired)

		total := 0
		for _, face := range paired[:n] {
			total += face
		}
		return 2 * total
	}
}

// ofAKind scores n times the lowest face showing at least n times.
func ofAKind(n int) scorer {
	return func(d Dice) int {
		counts := d.Counts()
		for face := 1; face <= 6; face++ {
			if counts[face] >= n {
				return n * face
			}
		}
		return 0
	}
}

func straight(faces []int, points int) scorer {
	return func(d Dice) int {
		counts := d.Counts()
		if len(counts) != len(faces) {
			return 0
		}
		for _, face := range faces {
			if counts[face] == 0 {
				return 0
			}
		}
		return points
	}
}

func fullHouse(d Dice) int {
	counts := d.Counts()
	if len(counts) != 2 {
		return 0
	}
	var shape []int
	for _, count := range counts {
		shape = append(shape, count)
	}
	slices.Sort(shape)
	if shape[0] != 2 || shape[1] != 3 {
		return 0
	}
	return d.Sum()
}
