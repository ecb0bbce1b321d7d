package catalog

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrSelfParent       = errors.New("category cannot be its own parent")
	ErrCyclicHierarchy  = errors.New("parent change would create a cycle")
	ErrDuplicateName    = errors.New("category name already exists")
	ErrHasChildren      = errors.New("category still has child categories")
	ErrHasProducts      = errors.New("category still has products")
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by TreeOf only.
	Children []*Category `json:"children,omitempty"`
}

// WouldCreateCycle reports whether assigning newParent to id would make id
// (transitively) its own ancestor. The walk follows parent pointers and keeps
// a visited set as a guard against pre-existing corruption, so it terminates
// even on a broken forest.
func WouldCreateCycle(parents map[string]*string, id string, newParent *string) bool {
	if newParent == nil {
		return false
	}
	visited := map[string]bool{}
	cur := newParent
	for cur != nil {
		if *cur == id {
			return true
		}
		if visited[*cur] {
			return true
		}
		visited[*cur] = true
		cur = parents[*cur]
	}
	return false
}

type Stats struct {
	MaxDepth     int         `json:"max_depth"`
	CountByDepth map[int]int `json:"count_by_depth"`
}

// DepthStats computes depth(root)=1, depth(node)=depth(parent)+1 over the
// whole forest, memoized per category. A dangling parent reference yields
// depth 0 for that subtree rather than an error.
func DepthStats(parents map[string]*string) Stats {
	memo := make(map[string]int, len(parents))

	var depth func(id string, seen map[string]bool) int
	depth = func(id string, seen map[string]bool) int {
		if d, ok := memo[id]; ok {
			return d
		}
		if seen[id] {
			// cycle in persisted data; don't recurse forever
			memo[id] = 0
			return 0
		}
		seen[id] = true

		p := parents[id]
		var d int
		switch {
		case p == nil:
			d = 1
		default:
			if _, ok := parents[*p]; !ok {
				d = 0 // dangling parent
			} else if pd := depth(*p, seen); pd == 0 {
				d = 0
			} else {
				d = pd + 1
			}
		}
		memo[id] = d
		return d
	}

	st := Stats{CountByDepth: map[int]int{}}
	for id := range parents {
		d := depth(id, map[string]bool{})
		st.CountByDepth[d]++
		if d > st.MaxDepth {
			st.MaxDepth = d
		}
	}
	return st
}

// TreeOf assembles a flat list into a nested forest ordered by sort_order.
// Children slices follow the input order, which repos return sorted.
func TreeOf(flat []Category) []*Category {
	byID := make(map[string]*Category, len(flat))
	nodes := make([]*Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = nil
		nodes[i] = &c
		byID[c.ID] = nodes[i]
	}
	var roots []*Category
	for _, n := range nodes {
		if n.ParentID != nil {
			if p, ok := byID[*n.ParentID]; ok {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
