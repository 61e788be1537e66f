package deck

import (
	"testing"

	utils "github.com/minaorangina/crazyeights/internal"
)

func TestRank(t *testing.T) {
	utils.AssertEqual(t, len(Ranks), 13)
	utils.AssertEqual(t, Eight.String(), "8")
	utils.AssertEqual(t, Ace.String(), "A")
	utils.AssertEqual(t, NoRank.String(), "")
	utils.AssertFalse(t, NoRank.Valid())

	for _, r := range Ranks {
		utils.AssertTrue(t, r.Valid())

		parsed, err := ParseRank(r.String())
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, parsed, r)
	}

	_, err := ParseRank("11")
	utils.AssertErrored(t, err)
}

func TestSuit(t *testing.T) {
	utils.AssertDeepEqual(t, Suits, []Suit{Hearts, Diamonds, Clubs, Spades})
	utils.AssertEqual(t, Spades.Symbol(), "♠")
	utils.AssertTrue(t, Diamonds.Red())
	utils.AssertFalse(t, Clubs.Red())
	utils.AssertFalse(t, NoSuit.Valid())
	utils.AssertFalse(t, Suit(9).Valid())

	for _, s := range Suits {
		parsed, err := ParseSuit(s.String())
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, parsed, s)
	}

	parsed, err := ParseSuit("clubs")
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, parsed, Clubs)

	_, err = ParseSuit("cups")
	utils.AssertErrored(t, err)
}
