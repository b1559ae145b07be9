package slugindex

// Search returns up to limit slugs ranked for query. The literal
// substring path always runs first; when it leaves room and fuzzy is
// enabled, typo-tolerant candidates fill the rest. A slug matched by
// both paths keeps its substring rank. minSimilarity <= 0 falls back to
// the configured default; an empty query yields no results rather than
// an error.
func (ix *Index) Search(query string, limit int, fuzzy bool, minSimilarity float64) []string {
	q := Normalize(query)
	if q == "" || limit <= 0 || len(ix.names) == 0 {
		return nil
	}
	if minSimilarity <= 0 {
		minSimilarity = ix.opts.MinSimilarity
	}

	results := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)

	// An exact normalized hit always ranks first. The lookup table also
	// resolves lowercase raw slug forms ("joe_biden" -> Joe_Biden).
	if slug, ok := ix.lookup[q]; ok {
		results = append(results, slug)
		seen[slug] = struct{}{}
	}

	for _, m := range ix.substringMatches(q) {
		if len(results) >= limit {
			break
		}
		slug := ix.entrySlugs[m.id]
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		results = append(results, slug)
	}

	if fuzzy && len(results) < limit {
		for _, m := range ix.fuzzyMatches(q, limit-len(results), minSimilarity) {
			if len(results) >= limit {
				break
			}
			slug := ix.entrySlugs[m.id]
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			results = append(results, slug)
		}
	}
	return results
}

// FindBestMatch returns the single most relevant slug for query, or
// false when nothing clears the default similarity floor.
func (ix *Index) FindBestMatch(query string) (string, bool) {
	results := ix.Search(query, 1, true, 0)
	if len(results) == 0 {
		return "", false
	}
	return results[0], true
}

// substringMatches runs the literal path over the catalog. Queries long
// enough to carry trigrams are pre-filtered through the posting bitmaps
// instead of scanning every name.
func (ix *Index) substringMatches(q string) []substringMatch {
	var matches []substringMatch
	if superset, ok := ix.trigrams.literalSuperset(q); ok {
		it := superset.Iterator()
		for it.HasNext() {
			id := it.Next()
			if m, hit := scoreSubstring(ix.names[id], q); hit {
				m.id = id
				matches = append(matches, m)
			}
		}
	} else {
		for id, name := range ix.names {
			if m, hit := scoreSubstring(name, q); hit {
				m.id = uint32(id)
				matches = append(matches, m)
			}
		}
	}
	sortSubstringMatches(matches, ix.names)
	return matches
}

// fuzzyMatches unions the trigram candidate pool with BK-tree hits under
// a rising edit-distance bound, then rescores every candidate on the 0-1
// similarity scale and drops anything below minSimilarity.
func (ix *Index) fuzzyMatches(q string, needed int, minSimilarity float64) []fuzzyMatch {
	const unmeasured = -1

	distances := make(map[uint32]int)
	for _, c := range ix.trigrams.candidates(q, ix.opts.MinTrigramOverlap, ix.opts.MaxCandidates) {
		distances[c.id] = unmeasured
	}

	var hits []bkHit
	for maxDist := 1; maxDist <= ix.opts.MaxEditDistance; maxDist++ {
		hits = ix.tree.search(q, maxDist)
		if len(hits) >= needed {
			break
		}
	}
	for _, h := range hits {
		distances[h.id] = h.distance
	}

	matches := make([]fuzzyMatch, 0, len(distances))
	for id, dist := range distances {
		sim := similarityScore(q, ix.names[id])
		if sim < minSimilarity {
			continue
		}
		if dist == unmeasured {
			dist = editDistance(q, ix.names[id])
		}
		matches = append(matches, fuzzyMatch{id: id, similarity: sim, distance: dist})
	}
	sortFuzzyMatches(matches, ix.names)
	return matches
}
