package treasure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineNumbers(results []SearchResult) []int {
	lines := make([]int, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.Line)
	}
	return lines
}

// ====================
// String Search Tests
// ====================

func TestFindStringBasic(t *testing.T) {
	_, d := openTestProject(t)

	results := d.FindString("TREASURE_X", SearchOptions{CaseSensitive: true})
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 2, r.Line)
	assert.Equal(t, 8, r.Column)
	assert.Equal(t, "TREASURE_X", r.Match)
	assert.Equal(t, TextNode, r.Node.Kind())
}

func TestFindStringCaseInsensitive(t *testing.T) {
	_, d := openTestProject(t)

	assert.Empty(t, d.FindString("spawn_fall", SearchOptions{CaseSensitive: true}))

	results := d.FindString("spawn_fall", SearchOptions{})
	assert.Equal(t, []int{5, 16, 17, 18}, lineNumbers(results))
	for _, r := range results {
		assert.Equal(t, "SPAWN_FALL", r.Match)
	}
}

func TestFindStringWholeWord(t *testing.T) {
	_, d := openTestProject(t)

	assert.Equal(t, []int{1, 15, 16, 17, 18}, lineNumbers(d.FindString("SHIELD", SearchOptions{CaseSensitive: true})))
	assert.Empty(t, d.FindString("SHIELD", SearchOptions{CaseSensitive: true, WholeWord: true}))

	results := d.FindString("m_TreasureSubid", SearchOptions{CaseSensitive: true, WholeWord: true})
	assert.Equal(t, []int{8, 10, 16, 17, 18, 22, 23, 25}, lineNumbers(results))
}

func TestFindStringWholeWordLaterInLine(t *testing.T) {
	p := newTestProject(t)
	d, err := p.Open(FileOptions{DataString: "; foo_bar bar\n"})
	require.NoError(t, err)

	results := d.FindString("bar", SearchOptions{CaseSensitive: true, WholeWord: true})
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].Column)
}

func TestFindStringNotFound(t *testing.T) {
	_, d := openTestProject(t)

	assert.Empty(t, d.FindString("TREASURE_SWORD", SearchOptions{}))
	assert.Nil(t, d.FindString("", SearchOptions{}))
}

// ====================
// Regex Search Tests
// ====================

func TestFindRegex(t *testing.T) {
	_, d := openTestProject(t)

	results, err := d.FindRegex(`^treasureObjectData[0-9a-f]{2}:$`, RegexOptions{})
	require.NoError(t, err)
	assert.Equal(t, []int{14, 20}, lineNumbers(results))
	for _, r := range results {
		assert.True(t, r.Node.IsLabel())
		assert.Equal(t, 0, r.Column)
	}
}

func TestFindRegexCaseInsensitive(t *testing.T) {
	_, d := openTestProject(t)

	results, err := d.FindRegex(`TREASUREOBJECTDATA0\d`, RegexOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = d.FindRegex(`TREASUREOBJECTDATA0\d`, RegexOptions{CaseInsensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []int{9, 11, 12, 14, 20}, lineNumbers(results))
	assert.Equal(t, 29, results[0].Column)
	assert.Equal(t, "treasureObjectData01", results[0].Match)
}

func TestFindRegexInvalid(t *testing.T) {
	_, d := openTestProject(t)

	_, err := d.FindRegex(`(`, RegexOptions{})
	require.Error(t, err)
}
