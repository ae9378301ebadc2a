// Package tree builds nested trees from flat rows that carry a parent id.
package tree

import (
	"sort"

	"github.com/google/uuid"
)

// Node wraps one item and its children.
type Node[T any] struct {
	Item     T
	Children []*Node[T]
}

// Options describe how to read ids off an item and how to order siblings.
type Options[T any] struct {
	ID     func(T) uuid.UUID
	Parent func(T) *uuid.UUID
	Less   func(a, b T) bool
}

// Build arranges items into a forest. Items whose parent is absent from the
// input become roots. Items caught in a parent cycle are cut loose: the first
// one encountered becomes a root and the cycle is broken there. Every item
// appears exactly once.
func Build[T any](items []T, opts Options[T]) []*Node[T] {
	nodes := make(map[uuid.UUID]*Node[T], len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id := opts.ID(item)
		if _, dup := nodes[id]; dup {
			continue
		}
		nodes[id] = &Node[T]{Item: item}
		order = append(order, id)
	}

	children := make(map[uuid.UUID][]uuid.UUID, len(items))
	var roots []uuid.UUID
	for _, id := range order {
		parent := opts.Parent(nodes[id].Item)
		if parent == nil || *parent == id {
			roots = append(roots, id)
			continue
		}
		if _, ok := nodes[*parent]; !ok {
			roots = append(roots, id)
			continue
		}
		children[*parent] = append(children[*parent], id)
	}

	visited := make(map[uuid.UUID]bool, len(items))
	var attach func(id uuid.UUID) *Node[T]
	attach = func(id uuid.UUID) *Node[T] {
		visited[id] = true
		node := nodes[id]
		for _, childID := range children[id] {
			if visited[childID] {
				continue
			}
			node.Children = append(node.Children, attach(childID))
		}
		sortNodes(node.Children, opts.Less)
		return node
	}

	forest := make([]*Node[T], 0, len(roots))
	for _, id := range roots {
		forest = append(forest, attach(id))
	}
	for _, id := range order {
		if !visited[id] {
			forest = append(forest, attach(id))
		}
	}
	sortNodes(forest, opts.Less)
	return forest
}

// Walk visits every node depth first, parents before children.
func Walk[T any](forest []*Node[T], fn func(n *Node[T], depth int)) {
	var visit func(nodes []*Node[T], depth int)
	visit = func(nodes []*Node[T], depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(forest, 0)
}

// Ancestors returns the ids above id, nearest first. It stops at a missing
// parent or when a cycle is detected.
func Ancestors[T any](byID map[uuid.UUID]T, id uuid.UUID, parent func(T) *uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	seen := map[uuid.UUID]bool{id: true}
	current, ok := byID[id]
	for ok {
		p := parent(current)
		if p == nil || seen[*p] {
			break
		}
		seen[*p] = true
		current, ok = byID[*p]
		if !ok {
			break
		}
		out = append(out, *p)
	}
	return out
}

// Descendants returns every id below id in the parent relation.
func Descendants[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID, parent func(T) *uuid.UUID) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, item := range items {
		if p := parent(item); p != nil {
			children[*p] = append(children[*p], idOf(item))
		}
	}

	var out []uuid.UUID
	seen := map[uuid.UUID]bool{id: true}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, c := range children[next] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

func sortNodes[T any](nodes []*Node[T], less func(a, b T) bool) {
	if less == nil {
		return
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i].Item, nodes[j].Item)
	})
}
