package engine

import "fmt"

type Category string

const (
	CategoryChance        Category = "chance"
	CategoryYahtzee       Category = "yahtzee"
	CategoryOnes          Category = "ones"
	CategoryTwos          Category = "twos"
	CategoryThrees        Category = "threes"
	CategoryFours         Category = "fours"
	CategoryFives         Category = "fives"
	CategorySixes         Category = "sixes"
	CategoryPair          Category = "pair"
	CategoryTwoPairs      Category = "twoPairs"
	CategoryThreeOfAKind  Category = "threeOfAKind"
	CategoryFourOfAKind   Category = "fourOfAKind"
	CategorySmallStraight Category = "smallStraight"
	CategoryLargeStraight Category = "largeStraight"
	CategoryFullHouse     Category = "fullHouse"
)

// Scorecard order.
var categoryOrder = []Category{
	// Upper section
	CategoryOnes,
	CategoryTwos,
	CategoryThrees,
	CategoryFours,
	CategoryFives,
	CategorySixes,
	// Lower section
	CategoryPair,
	CategoryTwoPairs,
	CategoryThreeOfAKind,
	CategoryFourOfAKind,
	CategorySmallStraight,
	CategoryLargeStraight,
	CategoryFullHouse,
	CategoryChance,
	CategoryYahtzee,
}

// Categories returns every category in scorecard order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := scorers[c]
	return ok
}

func (c Category) String() string { return string(c) }

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
