package threads

import (
	"git.sr.ht/~rjarry/mthreads/lib/log"
	"git.sr.ht/~rjarry/mthreads/models"
)

// Add ingests one message. Its node becomes a message node (replacing any
// envelope previously stored under the same id) and each id of its
// ancestor chain is parented under the id before it, unless that id already
// has a parent or the link would create a cycle.
func (g *Graph) Add(env *models.Envelope) error {
	ids, err := Ancestors(env)
	if err != nil {
		return err
	}

	self := g.GetOrCreate(ids[len(ids)-1])
	self.msg = env

	for i, id := range ids {
		if i > 0 && g.wouldLoop(id, ids[i-1]) {
			log.Tracef("<%s>: not parenting <%s> under <%s>: loop",
				env.MessageId, id, ids[i-1])
			continue
		}
		node := g.GetOrCreate(id)
		if i > 0 && node.IsRoot() {
			g.link(node, g.GetOrCreate(ids[i-1]))
		}
	}
	return nil
}

// Build ingests every envelope into a new graph. Envelopes that cannot be
// threaded are logged and counted as skipped.
func Build(envs []*models.Envelope) (*Graph, int) {
	g := NewGraph()
	skipped := 0
	for _, env := range envs {
		if err := g.Add(env); err != nil {
			log.Warnf("skipping %v: %v", env, err)
			skipped++
		}
	}
	return g, skipped
}

// Thread builds the graph, prunes containers and sorts the result.
func Thread(envs []*models.Envelope) (*Graph, int) {
	g, skipped := Build(envs)
	g.Prune()
	g.Sort()
	return g, skipped
}
