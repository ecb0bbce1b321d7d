package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRelativeOrder(t *testing.T) {
	opts := ScoreOptions{}
	q := "ao thun"

	exact := Score(q, "Ao Thun", opts)
	prefix := Score(q, "ao thun nam", opts)
	substring := Score(q, "mua ao thun dep", opts)
	tokens := Score(q, "thun lanh", opts)

	assert.Greater(t, exact, prefix, "exact beats prefix")
	assert.Greater(t, prefix, substring, "prefix beats substring")
	assert.Greater(t, substring, tokens, "substring beats bare token overlap")
	assert.Greater(t, tokens, 0.0)
}

func TestScoreUnrelatedIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score("ao thun", "giay sneaker", ScoreOptions{}))
	assert.Equal(t, 0.0, Score("", "anything", ScoreOptions{}))
	assert.Equal(t, 0.0, Score("ao", "", ScoreOptions{}))
}

func TestScorePrefixPrefersCloserLength(t *testing.T) {
	opts := ScoreOptions{}
	short := Score("ao", "ao thun", opts)
	long := Score("ao", "ao thun tay dai co tron phong cach", opts)
	assert.Greater(t, short, long)
}

func TestScoreSubstringPositionWeight(t *testing.T) {
	opts := ScoreOptions{}
	early := Score("thun", "bo thun lanh", opts)
	late := Score("thun", "bo do mac nha vai thun", opts)
	assert.Greater(t, early, late)
}

func TestScoreCuratedBonuses(t *testing.T) {
	plain := Score("ao thun nam", "ao thun nam cao cap", ScoreOptions{})
	boosted := Score("ao thun nam", "ao thun nam cao cap", ScoreOptions{
		Trending: map[string]bool{"ao thun nam cao cap": true},
	})
	assert.Greater(t, boosted, plain)
}

func TestScoreLengthPenalty(t *testing.T) {
	opts := ScoreOptions{}
	concise := Score("dam", "dam maxi", opts)
	rambling := Score("dam", "dam maxi di bien phong cach boho nhe nhang danh cho mua he nam nay", opts)
	assert.Greater(t, concise, rambling)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ao thun nam", Normalize("  Ao   THUN  nam "))
}
