package threads

import (
	"fmt"
	"sort"
	"time"

	"git.sr.ht/~rjarry/mthreads/models"
)

// A Node is one message id seen while threading, either as a delivered
// message or only as a reference to one.
type Node struct {
	ID string

	// parent is looked up in the owning Graph, empty for roots
	parent   string
	children map[string]struct{}

	// msg is nil for containers: ids that were referenced but whose
	// message was never delivered
	msg *models.Envelope

	// position in the graph order, -1 once removed
	index int
}

func (n *Node) Parent() string {
	return n.parent
}

func (n *Node) IsRoot() bool {
	return n.parent == ""
}

// IsContainer reports whether no message with this id was ingested.
func (n *Node) IsContainer() bool {
	return n.msg == nil
}

// Envelope returns the message bearing this id, nil for a container.
func (n *Node) Envelope() *models.Envelope {
	return n.msg
}

func (n *Node) Date() time.Time {
	if n.msg == nil {
		return time.Time{}
	}
	return n.msg.Date
}

func (n *Node) HasDate() bool {
	return n.msg != nil && n.msg.HasDate()
}

func (n *Node) Subject() (string, bool) {
	if n.msg == nil || !n.msg.HasSubject {
		return "", false
	}
	return n.msg.Subject, true
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	kind := "message"
	if n.IsContainer() {
		kind = "container"
	}
	return fmt.Sprintf("[%s] (%s, parent:%q, children:%d)",
		n.ID, kind, n.parent, len(n.children))
}

// A Graph owns every Node of a threading run. Nodes refer to each other by
// id only. Iteration follows first insertion order until sorted.
type Graph struct {
	nodes []*Node
	byID  map[string]*Node
	holes int
}

func NewGraph() *Graph {
	return &Graph{byID: make(map[string]*Node)}
}

// GetOrCreate returns the node for id, creating a parentless container if
// id was never seen.
func (g *Graph) GetOrCreate(id string) *Node {
	if n, ok := g.byID[id]; ok {
		return n
	}
	n := &Node{
		ID:       id,
		children: make(map[string]struct{}),
		index:    len(g.nodes),
	}
	g.nodes = append(g.nodes, n)
	g.byID[id] = n
	return n
}

func (g *Graph) Lookup(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Remove deletes the node from the graph and from its parent's children.
// The removed node's own children are left untouched and must be
// reattached by the caller.
func (g *Graph) Remove(id string) (*Node, bool) {
	n, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	if p, ok := g.byID[n.parent]; ok {
		delete(p.children, id)
	}
	delete(g.byID, id)
	g.nodes[n.index] = nil
	n.index = -1
	g.holes++
	return n, true
}

func (g *Graph) Len() int {
	return len(g.byID)
}

func (g *Graph) compact() {
	if g.holes == 0 {
		return
	}
	nodes := make([]*Node, 0, len(g.byID))
	for _, n := range g.nodes {
		if n != nil {
			n.index = len(nodes)
			nodes = append(nodes, n)
		}
	}
	g.nodes = nodes
	g.holes = 0
}

// Nodes returns all nodes in graph order.
func (g *Graph) Nodes() []*Node {
	g.compact()
	nodes := make([]*Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Roots returns the parentless nodes in graph order.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.Nodes() {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Children returns the children of n in graph order.
func (g *Graph) Children(n *Node) []*Node {
	kids := make([]*Node, 0, len(n.children))
	for id := range n.children {
		if kid, ok := g.byID[id]; ok {
			kids = append(kids, kid)
		}
	}
	sort.Slice(kids, func(i, j int) bool {
		return kids[i].index < kids[j].index
	})
	return kids
}

// SortFunc reorders the graph in place. The sort is stable.
func (g *Graph) SortFunc(less func(a, b *Node) bool) {
	g.compact()
	sort.SliceStable(g.nodes, func(i, j int) bool {
		return less(g.nodes[i], g.nodes[j])
	})
	for i, n := range g.nodes {
		n.index = i
	}
}

func (g *Graph) link(child, parent *Node) {
	child.parent = parent.ID
	parent.children[child.ID] = struct{}{}
}

// wouldLoop reports whether parenting child under parent would create a
// cycle, that is whether child is parent or one of its ancestors.
func (g *Graph) wouldLoop(child, parent string) bool {
	for cur := parent; cur != ""; {
		if cur == child {
			return true
		}
		n, ok := g.byID[cur]
		if !ok {
			break
		}
		cur = n.parent
	}
	return false
}
