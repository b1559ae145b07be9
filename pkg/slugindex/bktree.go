package slugindex

import (
	edlib "github.com/hbollon/go-edlib"
)

// bkHit is a single BK-tree search result.
type bkHit struct {
	id       uint32
	distance int
}

// bkNode holds one catalog entry; children are keyed by the exact edit
// distance from this node's name to the child's name.
type bkNode struct {
	id       uint32
	children map[int]int32 // edge label -> index into nodes
}

// bkTree is a metric tree over Levenshtein distance. Insertion and
// search both descend iteratively: catalogs typically arrive sorted,
// which degenerates the tree toward a deep chain, and a recursive
// traversal would risk blowing the stack on a million entries.
type bkTree struct {
	names []string
	nodes []bkNode
}

// newBKTree builds a tree over the given normalized names. Entry IDs are
// offsets into names, which must already be deduplicated.
func newBKTree(names []string) *bkTree {
	t := &bkTree{names: names, nodes: make([]bkNode, 0, len(names))}
	for id := range names {
		t.insert(uint32(id))
	}
	return t
}

func (t *bkTree) size() int { return len(t.nodes) }

func (t *bkTree) insert(id uint32) {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, bkNode{id: id})
		return
	}
	name := t.names[id]
	cur := int32(0)
	for {
		d := editDistance(name, t.names[t.nodes[cur].id])
		if d == 0 {
			// Names are unique by construction; a zero edge would
			// shadow the existing node.
			return
		}
		next, ok := t.nodes[cur].children[d]
		if !ok {
			t.nodes = append(t.nodes, bkNode{id: id})
			if t.nodes[cur].children == nil {
				t.nodes[cur].children = make(map[int]int32)
			}
			t.nodes[cur].children[d] = int32(len(t.nodes) - 1)
			return
		}
		cur = next
	}
}

// search returns every entry within maxDistance edits of query, in no
// particular order. At each node with distance d to the query, only
// children whose edge label lies in [d-maxDistance, d+maxDistance] can
// hold further hits (triangle inequality); all other subtrees are
// skipped wholesale, which is what makes the search sublinear.
func (t *bkTree) search(query string, maxDistance int) []bkHit {
	if len(t.nodes) == 0 || maxDistance < 0 {
		return nil
	}
	var hits []bkHit
	stack := []int32{0}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes[cur]
		d := editDistance(query, t.names[node.id])
		if d <= maxDistance {
			hits = append(hits, bkHit{id: node.id, distance: d})
		}
		for label, child := range node.children {
			if label >= d-maxDistance && label <= d+maxDistance {
				stack = append(stack, child)
			}
		}
	}
	return hits
}

// editDistance is the single Levenshtein implementation in the module;
// every distance comparison in the index goes through it.
func editDistance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}
