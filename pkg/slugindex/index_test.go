package slugindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, slugs ...string) *Index {
	t.Helper()
	b := NewBuilder()
	for _, slug := range slugs {
		b.Add(slug)
	}
	return b.Build(Options{})
}

func TestExists(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden", "Elon_Musk", "12-bit_computing")

	for _, slug := range []string{"Joe_Biden", "Elon_Musk", "12-bit_computing"} {
		assert.True(t, ix.Exists(slug), slug)
	}
	assert.False(t, ix.Exists("joe biden"), "exists is an exact raw-set check")
	assert.False(t, ix.Exists("Never_Indexed"))
	assert.Equal(t, 3, ix.TotalCount())
}

func TestDuplicateNormalizedNames(t *testing.T) {
	// Both normalize to "joe biden"; the lexicographically smallest
	// original slug wins the index entry, but both stay in the raw set.
	ix := buildIndex(t, "joe_biden", "Joe_Biden")

	assert.True(t, ix.Exists("joe_biden"))
	assert.True(t, ix.Exists("Joe_Biden"))
	assert.Equal(t, 2, ix.TotalCount())

	results := ix.Search("joe biden", 5, false, 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "Joe_Biden", results[0])
}

func TestSearchExactMatchPrecedence(t *testing.T) {
	ix := buildIndex(t, "Elon_Musk", "Acquisition_of_Twitter_by_Elon_Musk")

	results := ix.Search("elon musk", 10, false, 0)
	require.Len(t, results, 2)
	assert.Equal(t, "Elon_Musk", results[0])
	assert.Equal(t, "Acquisition_of_Twitter_by_Elon_Musk", results[1])
}

func TestSearchRejectsNonRelevant(t *testing.T) {
	ix := buildIndex(t, "Putin_(surname)", "12-bit_computing")

	results := ix.Search("putin", 10, false, 0)
	assert.Equal(t, []string{"Putin_(surname)"}, results)
	assert.NotContains(t, results, "12-bit_computing")
}

func TestSearchSingleEditTolerance(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden", "Joe_Rogan", "Machine_learning")

	results := ix.Search("Joe_Bidan", 5, true, 0)
	require.NotEmpty(t, results)
	assert.Equal(t, "Joe_Biden", results[0])
}

func TestSearchFuzzyDisabled(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden")

	assert.Empty(t, ix.Search("Joe_Bidan", 5, false, 0))
}

func TestSearchSubstringOutranksFuzzy(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden", "Joe_Biden_presidential_campaign", "Jon_Bident")

	results := ix.Search("joe biden", 10, true, 0)
	require.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, "Joe_Biden", results[0])
	assert.Equal(t, "Joe_Biden_presidential_campaign", results[1])

	// No slug may appear twice even though both paths can produce it.
	seen := make(map[string]int)
	for _, slug := range results {
		seen[slug]++
	}
	for slug, n := range seen {
		assert.Equal(t, 1, n, slug)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden")

	assert.Nil(t, ix.Search("", 10, true, 0))
	assert.Nil(t, ix.Search("   ", 10, true, 0))
	assert.Nil(t, ix.Search("___", 10, true, 0))
	assert.Nil(t, ix.Search("joe", 0, true, 0))
}

func TestSearchLimit(t *testing.T) {
	ix := buildIndex(t,
		"Iron_Maiden", "Iron_Man", "Iron_Age", "Iron_Curtain", "Iron_Fist",
	)

	results := ix.Search("iron", 3, false, 0)
	assert.Len(t, results, 3)
}

func TestSearchMinSimilarityOverride(t *testing.T) {
	ix := buildIndex(t, "Joe_Biden")

	// A strict floor rejects the typo; the default accepts it.
	assert.Empty(t, ix.Search("Joe_Bidan", 5, true, 0.99))
	assert.NotEmpty(t, ix.Search("Joe_Bidan", 5, true, 0))
}

func TestFindBestMatch(t *testing.T) {
	ix := buildIndex(t, "Elon_Musk", "Acquisition_of_Twitter_by_Elon_Musk", "Joe_Biden")

	t.Run("exact", func(t *testing.T) {
		slug, ok := ix.FindBestMatch("elon musk")
		require.True(t, ok)
		assert.Equal(t, "Elon_Musk", slug)
	})

	t.Run("typo", func(t *testing.T) {
		slug, ok := ix.FindBestMatch("joe bidan")
		require.True(t, ok)
		assert.Equal(t, "Joe_Biden", slug)
	})

	t.Run("no plausible match", func(t *testing.T) {
		_, ok := ix.FindBestMatch("qqqqzzzz")
		assert.False(t, ok)
	})
}

func TestListByPrefix(t *testing.T) {
	ix := buildIndex(t, "Artificial_intelligence", "artificial_neuron", "Art_Deco", "Zebra")

	t.Run("case-insensitive", func(t *testing.T) {
		got := ix.ListByPrefix("art", 10)
		assert.Equal(t, []string{"Art_Deco", "Artificial_intelligence", "artificial_neuron"}, got)
	})

	t.Run("uppercase prefix", func(t *testing.T) {
		got := ix.ListByPrefix("ART", 10)
		assert.Equal(t, []string{"Art_Deco", "Artificial_intelligence", "artificial_neuron"}, got)
	})

	t.Run("empty prefix lists deterministically", func(t *testing.T) {
		got := ix.ListByPrefix("", 2)
		assert.Equal(t, []string{"Art_Deco", "Artificial_intelligence"}, got)
		assert.Equal(t, got, ix.ListByPrefix("", 2))
	})

	t.Run("limit truncates", func(t *testing.T) {
		assert.Len(t, ix.ListByPrefix("art", 1), 1)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, ix.ListByPrefix("xyz", 10))
	})
}

func TestRandomSample(t *testing.T) {
	slugs := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	ix := buildIndex(t, slugs...)

	t.Run("no duplicates", func(t *testing.T) {
		for i50 := 0; i50 < 50; i50++ {
			sample := ix.RandomSample(5)
			require.Len(t, sample, 5)
			seen := make(map[string]struct{}, len(sample))
			for _, slug := range sample {
				_, dup := seen[slug]
				require.False(t, dup, "duplicate %s in sample", slug)
				seen[slug] = struct{}{}
				assert.True(t, ix.Exists(slug))
			}
		}
	})

	t.Run("bounded by catalog size", func(t *testing.T) {
		assert.Len(t, ix.RandomSample(100), len(slugs))
	})

	t.Run("non-positive count", func(t *testing.T) {
		assert.Nil(t, ix.RandomSample(0))
		assert.Nil(t, ix.RandomSample(-3))
	})
}

func TestEmptyIndexIsValid(t *testing.T) {
	ix := NewBuilder().Build(Options{})

	assert.Equal(t, 0, ix.TotalCount())
	assert.Nil(t, ix.Search("anything", 10, true, 0))
	assert.Empty(t, ix.ListByPrefix("", 10))
	assert.Nil(t, ix.RandomSample(5))
	assert.False(t, ix.Exists("anything"))
	_, ok := ix.FindBestMatch("anything")
	assert.False(t, ok)
}

func TestSearchLargeCatalogUsesPrefilter(t *testing.T) {
	// Enough entries that the trigram prefilter path is exercised for
	// queries carrying trigrams; correctness must not depend on it.
	b := NewBuilder()
	for _, slug := range []string{
		"Elon_Musk", "Elongation", "Muskrat", "Musketeer",
		"Acquisition_of_Twitter_by_Elon_Musk", "Tesla", "SpaceX",
	} {
		b.Add(slug)
	}
	ix := b.Build(Options{})

	results := ix.Search("musk", 10, false, 0)
	assert.Contains(t, results, "Elon_Musk")
	assert.Contains(t, results, "Muskrat")
	assert.Contains(t, results, "Musketeer")
	assert.Contains(t, results, "Acquisition_of_Twitter_by_Elon_Musk")
	assert.NotContains(t, results, "Tesla")
}
