package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyFilter(t *testing.T) {
	names := []string{"Dorm A Laundry", "Canteen", "Dorm B Shower"}
	assert.Equal(t, []int{0, 1, 2}, FuzzyFilter("", names))
	assert.ElementsMatch(t, []int{0, 2}, FuzzyFilter("dorm", names))
	assert.Empty(t, FuzzyFilter("zzz", names))
}

func TestScoreCompletions(t *testing.T) {
	names := []string{"json", "plain", "pretty", "html"}
	assert.Equal(t, names, ScoreCompletions("", names, 0))
	assert.Len(t, ScoreCompletions("p", names, 1), 1)
	assert.Equal(t, []string{"plain"}, ScoreCompletions("pl", names, 0))
}
