package threads

import "git.sr.ht/~rjarry/mthreads/lib/log"

// Prune removes every container node. Each message whose parent is a
// container is moved under its nearest message ancestor, or becomes a root
// when there is none. Chains of nested containers are skipped as a whole.
// It returns the number of removed containers.
func (g *Graph) Prune() int {
	for _, n := range g.Nodes() {
		if n.IsContainer() || n.IsRoot() {
			continue
		}
		ancestor := g.survivingAncestor(n)
		switch {
		case ancestor == nil:
			n.parent = ""
		case ancestor.ID != n.parent:
			g.link(n, ancestor)
		}
	}

	removed := 0
	for _, n := range g.Nodes() {
		if n.IsContainer() {
			g.Remove(n.ID)
			removed++
		}
	}
	log.Debugf("pruned %d containers, %d messages left", removed, g.Len())
	return removed
}

func (g *Graph) survivingAncestor(n *Node) *Node {
	for cur := n.parent; cur != ""; {
		p, ok := g.byID[cur]
		if !ok {
			return nil
		}
		if !p.IsContainer() {
			return p
		}
		cur = p.parent
	}
	return nil
}
