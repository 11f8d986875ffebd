package pathfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwouis/fatsort-go/pathfilter"
)

func TestNormalize__RootsAndTrimsSegments(t *testing.T) {
	assert.Equal(t, "/", pathfilter.Normalize(""))
	assert.Equal(t, "/music/", pathfilter.Normalize("music"))
	assert.Equal(t, "/music/rock/", pathfilter.Normalize("/music//rock/"))
}

func TestNew__RejectsMixedPathListAndRegex(t *testing.T) {
	_, err := pathfilter.New(pathfilter.Options{
		Includes:     []pathfilter.Entry{{Path: "/music"}},
		IncludeRegex: ".*",
	})
	assert.Error(t, err)
}

func TestFilter__PathListDefaultsToAllowAll(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{})
	require.NoError(t, err)
	assert.True(t, f.Allow(pathfilter.Normalize("/anything/")))
}

func TestFilter__PathListExclusionWinsOverInclusion(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{
		Includes: []pathfilter.Entry{{Path: "/music", Recursive: true}},
		Excludes: []pathfilter.Entry{{Path: "/music/live"}},
	})
	require.NoError(t, err)
	assert.True(t, f.Allow(pathfilter.Normalize("/music/rock")))
	assert.False(t, f.Allow(pathfilter.Normalize("/music/live")))
}

func TestFilter__RecursiveIncludeMatchesDescendants(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{
		Includes: []pathfilter.Entry{{Path: "/music", Recursive: true}},
	})
	require.NoError(t, err)
	assert.True(t, f.Allow(pathfilter.Normalize("/music/rock/90s")))
	assert.False(t, f.Allow(pathfilter.Normalize("/video")))
}

func TestFilter__LiteralIncludeDoesNotMatchDescendants(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{
		Includes: []pathfilter.Entry{{Path: "/music"}},
	})
	require.NoError(t, err)
	assert.True(t, f.Allow(pathfilter.Normalize("/music")))
	assert.False(t, f.Allow(pathfilter.Normalize("/music/rock")))
}

func TestFilter__RegexModeExcludeWinsOverInclude(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{
		IncludeRegex: "^/music/",
		ExcludeRegex: "/live/",
	})
	require.NoError(t, err)
	assert.True(t, f.Allow("/music/rock/"))
	assert.False(t, f.Allow("/music/live/"))
	assert.False(t, f.Allow("/video/"))
}

func TestFilter__RegexModeNilIncludeMatchesAll(t *testing.T) {
	f, err := pathfilter.New(pathfilter.Options{ExcludeRegex: "/trash/"})
	require.NoError(t, err)
	assert.True(t, f.Allow("/music/"))
	assert.False(t, f.Allow("/trash/"))
}
