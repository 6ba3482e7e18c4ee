package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagliamonte-labs/dsctbd/pkg/api"
	"github.com/tagliamonte-labs/dsctbd/pkg/filter"
)

func TestMatchesPathEqual(t *testing.T) {
	f := &api.Filter{Kind: api.FilterPathEqual, Value: "/usr/lib/libA.dylib"}
	assert.True(t, filter.Matches("/usr/lib/libA.dylib", f))
	assert.False(t, filter.Matches("/usr/lib/libB.dylib", f))
}

func TestMatchesFileNameRecordsOffset(t *testing.T) {
	f := &api.Filter{Kind: api.FilterFileName, Value: "libA.dylib"}
	require.True(t, filter.Matches("/usr/lib/libA.dylib", f))
	assert.Equal(t, len("/usr/lib/"), f.MatchOffset)

	assert.False(t, filter.Matches("/usr/lib/libB.dylib", f))
}

func TestMatchesDirComponentRecordsOffset(t *testing.T) {
	f := &api.Filter{Kind: api.FilterDirComponent, Value: "private"}
	require.True(t, filter.Matches("/private/usr/libexec/libA.dylib", f))
	assert.Equal(t, len("/private/"), f.MatchOffset)

	assert.False(t, filter.Matches("/usr/lib/libA.dylib", f))
}

func TestShouldParseImageTransitionsHappening(t *testing.T) {
	f := &api.Filter{Kind: api.FilterFileName, Value: "libA.dylib", Status: api.StatusNotFound}
	filters := []*api.Filter{f}

	assert.True(t, filter.ShouldParseImage(filters, "/usr/lib/libA.dylib"))
	assert.Equal(t, api.StatusHappening, f.Status)

	assert.False(t, filter.ShouldParseImage(filters, "/usr/lib/libB.dylib"))
}

func TestShouldParseImageKeepsParsedFilterStatusOnMatch(t *testing.T) {
	matched := &api.Filter{Kind: api.FilterFileName, Value: "libA.dylib", Status: api.StatusOK}
	other := &api.Filter{Kind: api.FilterFileName, Value: "libZ.dylib", Status: api.StatusNotFound}
	filters := []*api.Filter{matched, other}

	assert.True(t, filter.ShouldParseImage(filters, "/usr/lib/libA.dylib"))
	assert.Equal(t, api.StatusOK, matched.Status)
	assert.Equal(t, api.StatusNotFound, other.Status)
}

func TestUnmarkHappeningFilters(t *testing.T) {
	f1 := &api.Filter{Status: api.StatusHappening}
	f2 := &api.Filter{Status: api.StatusOK}
	filter.UnmarkHappeningFilters([]*api.Filter{f1, f2})

	assert.Equal(t, api.StatusNotFound, f1.Status)
	assert.Equal(t, api.StatusOK, f2.Status)
}

func TestFoundEntireFilterList(t *testing.T) {
	ok := &api.Filter{Status: api.StatusOK}
	found := &api.Filter{Status: api.StatusFound}
	notFound := &api.Filter{Status: api.StatusNotFound}

	assert.True(t, filter.FoundEntireFilterList([]*api.Filter{ok, found}))
	assert.False(t, filter.FoundEntireFilterList([]*api.Filter{ok, notFound}))
}
