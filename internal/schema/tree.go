// Package schema merges flat rule descriptors into a nested type tree and
// renders it as property records.
package schema

import (
	"slices"
	"strings"

	"github.com/bfv/ruletypes/internal/rules"
)

// NodeID addresses a node in a Tree.
type NodeID int

type arrayState uint8

const (
	arrayUnset arrayState = iota
	arrayFalse
	arrayTrue
)

// Node is one property of the schema tree.
type Node struct {
	Name     string
	Path     string
	Types    []string
	Optional bool
	Nullable bool
	Children []NodeID

	array arrayState
}

// Array reports the array flag and whether it was ever set.
func (n *Node) Array() (isArray, set bool) {
	return n.array == arrayTrue, n.array != arrayUnset
}

// markArray sets the array flag. The flag never changes once set.
func (n *Node) markArray(isArray bool) error {
	want := arrayFalse
	if isArray {
		want = arrayTrue
	}
	if n.array != arrayUnset && n.array != want {
		return &ConflictError{Property: n.Path}
	}
	n.array = want
	return nil
}

func (n *Node) addTypes(types []string) {
	for _, t := range types {
		if t != rules.TagArray && !slices.Contains(n.Types, t) {
			n.Types = append(n.Types, t)
		}
	}
}

// Tree is an arena of nodes. Roots are in first-seen order.
type Tree struct {
	nodes []Node
	Roots []NodeID
}

// Node returns the node for id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Lookup finds a root node by name.
func (t *Tree) Lookup(name string) (NodeID, bool) {
	for _, id := range t.Roots {
		if t.nodes[id].Name == name {
			return id, true
		}
	}
	return 0, false
}

type entry struct {
	key  string
	desc rules.Descriptor
}

// Build merges descriptors into a tree. It fails with a *ConflictError when
// one property is used both as an array and as an object.
func Build(descs []rules.Descriptor) (*Tree, error) {
	t := &Tree{}
	entries := make([]entry, 0, len(descs))
	for _, d := range descs {
		entries = append(entries, entry{key: d.Path, desc: d})
	}
	roots, err := t.merge("", entries)
	if err != nil {
		return nil, err
	}
	t.Roots = roots
	return t, nil
}

// merge groups entries by their first path segment and recurses on the
// remainders. Un-dotted entries come first, then dotted heads in first-seen
// order.
func (t *Tree) merge(prefix string, entries []entry) ([]NodeID, error) {
	var ids []NodeID
	index := map[string]NodeID{}
	ensure := func(name string) NodeID {
		if id, ok := index[name]; ok {
			return id
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		id := NodeID(len(t.nodes))
		t.nodes = append(t.nodes, Node{Name: name, Path: path, Optional: true})
		index[name] = id
		ids = append(ids, id)
		return id
	}

	for _, e := range entries {
		if strings.Contains(e.key, ".") {
			continue
		}
		n := t.Node(ensure(e.key))
		n.Types = nil
		n.addTypes(e.desc.Types)
		n.Optional = e.desc.Optional
		n.Nullable = e.desc.Nullable
	}

	pending := map[NodeID][]entry{}
	for _, e := range entries {
		head, rest, ok := strings.Cut(e.key, ".")
		if !ok {
			continue
		}
		id := ensure(head)
		n := t.Node(id)

		isArray := rest == "*" || strings.HasPrefix(rest, "*.")
		if err := n.markArray(isArray); err != nil {
			return nil, err
		}
		if rest == "*" {
			n.addTypes(e.desc.Types)
			continue
		}
		if isArray {
			rest = rest[2:]
		}
		pending[id] = append(pending[id], entry{key: rest, desc: e.desc})
	}

	for _, id := range ids {
		if len(pending[id]) == 0 {
			continue
		}
		n := t.Node(id)
		childPrefix := n.Path
		if n.array == arrayTrue {
			childPrefix += ".*"
		}
		children, err := t.merge(childPrefix, pending[id])
		if err != nil {
			return nil, err
		}
		t.Node(id).Children = children
	}
	return ids, nil
}

// NodeView is a serializable snapshot of a node and its subtree.
type NodeView struct {
	Name     string     `yaml:"name" json:"name"`
	Types    []string   `yaml:"types,omitempty" json:"types,omitempty"`
	Optional bool       `yaml:"optional" json:"optional"`
	Nullable bool       `yaml:"nullable" json:"nullable"`
	Array    *bool      `yaml:"array,omitempty" json:"array,omitempty"`
	Children []NodeView `yaml:"children,omitempty" json:"children,omitempty"`
}

// View snapshots the whole tree.
func (t *Tree) View() []NodeView {
	return t.view(t.Roots)
}

func (t *Tree) view(ids []NodeID) []NodeView {
	var out []NodeView
	for _, id := range ids {
		n := t.Node(id)
		v := NodeView{
			Name:     n.Name,
			Types:    slices.Clone(n.Types),
			Optional: n.Optional,
			Nullable: n.Nullable,
			Children: t.view(n.Children),
		}
		if isArray, set := n.Array(); set {
			v.Array = &isArray
		}
		out = append(out, v)
	}
	return out
}
