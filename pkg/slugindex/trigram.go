package slugindex

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

const trigramSize = 3

// trigramCandidate pairs an entry ID with its overlap coefficient
// against a query's trigram set.
type trigramCandidate struct {
	id      uint32
	overlap float64
}

// trigramIndex maps 3-rune substrings of normalized names to bitmaps of
// entry IDs. It only shrinks the fuzzy candidate pool before scoring and
// never produces a final ranking on its own.
type trigramIndex struct {
	postings map[string]*roaring.Bitmap
}

func newTrigramIndex(names []string) *trigramIndex {
	ti := &trigramIndex{postings: make(map[string]*roaring.Bitmap)}
	for id, name := range names {
		for _, gram := range trigramsOf(name) {
			bm := ti.postings[gram]
			if bm == nil {
				bm = roaring.NewBitmap()
				ti.postings[gram] = bm
			}
			bm.Add(uint32(id))
		}
	}
	return ti
}

// trigramsOf returns the distinct overlapping 3-rune substrings of name.
// Names shorter than three runes become a single token.
func trigramsOf(name string) []string {
	runes := []rune(name)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) < trigramSize {
		return []string{string(runes)}
	}
	seen := make(map[string]struct{}, len(runes))
	grams := make([]string, 0, len(runes)-trigramSize+1)
	for i := 0; i+trigramSize <= len(runes); i++ {
		gram := string(runes[i : i+trigramSize])
		if _, dup := seen[gram]; dup {
			continue
		}
		seen[gram] = struct{}{}
		grams = append(grams, gram)
	}
	return grams
}

// candidates returns entries sharing at least one trigram with the
// query, filtered by a minimum overlap coefficient (shared trigrams over
// query trigram count) and capped to the maxPool highest overlaps so the
// downstream scoring cost stays bounded.
func (ti *trigramIndex) candidates(query string, minOverlap float64, maxPool int) []trigramCandidate {
	grams := trigramsOf(query)
	if len(grams) == 0 {
		return nil
	}
	shared := make(map[uint32]int)
	for _, gram := range grams {
		bm := ti.postings[gram]
		if bm == nil {
			continue
		}
		it := bm.Iterator()
		for it.HasNext() {
			shared[it.Next()]++
		}
	}

	total := float64(len(grams))
	pool := make([]trigramCandidate, 0, len(shared))
	for id, count := range shared {
		overlap := float64(count) / total
		if overlap >= minOverlap {
			pool = append(pool, trigramCandidate{id: id, overlap: overlap})
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].overlap != pool[j].overlap {
			return pool[i].overlap > pool[j].overlap
		}
		return pool[i].id < pool[j].id
	})
	if maxPool > 0 && len(pool) > maxPool {
		pool = pool[:maxPool]
	}
	return pool
}

// literalSuperset intersects the posting bitmaps of every query trigram.
// A name containing the query as a literal substring necessarily
// contains all of its trigrams, so the intersection is a sound superset
// for the substring scan. The second return is false when the query is
// too short to carry trigrams and the caller must scan the full catalog.
func (ti *trigramIndex) literalSuperset(query string) (*roaring.Bitmap, bool) {
	if len([]rune(query)) < trigramSize {
		return nil, false
	}
	grams := trigramsOf(query)
	bitmaps := make([]*roaring.Bitmap, 0, len(grams))
	for _, gram := range grams {
		bm := ti.postings[gram]
		if bm == nil {
			// Some trigram occurs nowhere in the catalog, so no name
			// can contain the query literally.
			return roaring.NewBitmap(), true
		}
		bitmaps = append(bitmaps, bm)
	}
	return roaring.FastAnd(bitmaps...), true
}
