/*
Package slugindex implements an in-memory approximate-string search
index over a static catalog of article slugs.

The index layers a trigram candidate filter and a BK-tree over a
normalized name table, with tiered relevance scoring on top. It is built
once from the full catalog, published as a single immutable value and
queried without locking; rebuilding means constructing a fresh Index and
swapping the reference.
*/
package slugindex

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Default tuning values for the query pipeline. Every similarity and
// overlap threshold is a 0-1 ratio.
const (
	DefaultMinSimilarity     = 0.6
	DefaultMinTrigramOverlap = 0.3
	DefaultMaxCandidates     = 300
	DefaultMaxEditDistance   = 3
)

// Options tune the query pipeline. Zero values fall back to the package
// defaults.
type Options struct {
	MinSimilarity     float64 // fuzzy acceptance floor, 0-1
	MinTrigramOverlap float64 // trigram pre-filter floor, 0-1
	MaxCandidates     int     // cap on the trigram candidate pool
	MaxEditDistance   int     // cap on the rising BK-tree search bound
}

func (o Options) withDefaults() Options {
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
	if o.MinTrigramOverlap <= 0 {
		o.MinTrigramOverlap = DefaultMinTrigramOverlap
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.MaxEditDistance <= 0 {
		o.MaxEditDistance = DefaultMaxEditDistance
	}
	return o
}

// Index is the immutable, queryable slug catalog. Once built it is
// never mutated, so any number of goroutines may query it concurrently
// without synchronization.
type Index struct {
	opts Options

	slugs      []string // every unique raw slug, sorted
	slugSet    map[string]struct{}
	names      []string          // deduplicated normalized names; entry IDs are offsets
	entrySlugs []string          // winning slug per entry ID
	lookup     map[string]string // normalized name (and lowercase slug) -> slug

	trigrams *trigramIndex
	tree     *bkTree
	prefixes *patricia.Trie // lowercase slug keys -> raw slug
}

// Builder accumulates raw slugs and assembles an Index. It is not safe
// for concurrent use; the catalog loader is the single writer.
type Builder struct {
	slugSet map[string]struct{}
	byName  map[string]string
}

func NewBuilder() *Builder {
	return &Builder{
		slugSet: make(map[string]struct{}),
		byName:  make(map[string]string),
	}
}

// Add records one raw slug. When two distinct slugs normalize to the
// same name, the lexicographically smallest original wins.
func (b *Builder) Add(slug string) {
	if slug == "" {
		return
	}
	b.slugSet[slug] = struct{}{}
	name := Normalize(slug)
	if name == "" {
		return
	}
	if prev, ok := b.byName[name]; !ok || slug < prev {
		b.byName[name] = slug
	}
}

// Len reports the number of unique raw slugs added so far.
func (b *Builder) Len() int { return len(b.slugSet) }

// Build assembles the immutable index. The builder must not be reused
// afterwards.
func (b *Builder) Build(opts Options) *Index {
	ix := &Index{
		opts:     opts.withDefaults(),
		slugSet:  b.slugSet,
		lookup:   make(map[string]string, 2*len(b.byName)),
		prefixes: patricia.NewTrie(),
	}

	ix.slugs = make([]string, 0, len(b.slugSet))
	for slug := range b.slugSet {
		ix.slugs = append(ix.slugs, slug)
	}
	sort.Strings(ix.slugs)

	ix.names = make([]string, 0, len(b.byName))
	for name := range b.byName {
		ix.names = append(ix.names, name)
	}
	sort.Strings(ix.names)

	ix.entrySlugs = make([]string, len(ix.names))
	for id, name := range ix.names {
		slug := b.byName[name]
		ix.entrySlugs[id] = slug
		ix.lookup[name] = slug
	}

	// Lowercase originals are alternate lookup keys so articles can be
	// referenced by their exact slug form as well. Trie keys append the
	// raw slug after a NUL byte, keeping distinct slugs that share a
	// lowercase form as separate entries.
	for _, slug := range ix.slugs {
		lower := strings.ToLower(slug)
		if _, taken := ix.lookup[lower]; !taken {
			ix.lookup[lower] = slug
		}
		ix.prefixes.Insert(patricia.Prefix(lower+"\x00"+slug), slug)
	}

	ix.trigrams = newTrigramIndex(ix.names)
	ix.tree = newBKTree(ix.names)
	return ix
}

// Exists reports whether slug was present in the catalog at load time.
// Exact membership only, O(1).
func (ix *Index) Exists(slug string) bool {
	_, ok := ix.slugSet[slug]
	return ok
}

// TotalCount returns the number of unique slugs in the catalog.
func (ix *Index) TotalCount() int { return len(ix.slugs) }

// ListByPrefix returns up to limit slugs whose name starts with prefix,
// case-insensitively, in lexical order.
func (ix *Index) ListByPrefix(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	if prefix == "" {
		n := min(limit, len(ix.slugs))
		out := make([]string, n)
		copy(out, ix.slugs[:n])
		return out
	}
	var out []string
	_ = ix.prefixes.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, item.(string))
		return nil
	})
	// Subtree visits are not ordered; sort before truncating so the
	// result is deterministic.
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RandomSample returns count distinct slugs drawn uniformly without
// replacement, bounded by the catalog size.
func (ix *Index) RandomSample(count int) []string {
	n := len(ix.slugs)
	if count > n {
		count = n
	}
	if count <= 0 {
		return nil
	}
	// Partial Fisher-Yates over a virtual permutation; only displaced
	// positions are materialized, so sampling a handful out of a
	// million slugs stays cheap.
	displaced := make(map[int]int, 2*count)
	out := make([]string, count)
	for i := 0; i < count; i++ {
		j := i + rand.Intn(n-i)
		vi, ok := displaced[i]
		if !ok {
			vi = i
		}
		vj, ok := displaced[j]
		if !ok {
			vj = j
		}
		out[i] = ix.slugs[vj]
		displaced[j] = vi
	}
	return out
}
