package threads

import (
	"git.sr.ht/~rjarry/mthreads/lib/rfc822"
	"git.sr.ht/~rjarry/mthreads/models"
)

// Ancestors returns the ancestor chain of env: the References ids in order,
// then the In-Reply-To ids, each kept only on first occurrence, and finally
// the message's own id. The oldest ancestor comes first.
func Ancestors(env *models.Envelope) ([]string, error) {
	if env == nil || env.MessageId == "" {
		return nil, rfc822.ErrMissingIdentifier
	}
	seen := make(map[string]struct{}, len(env.References)+len(env.InReplyTo))
	ids := make([]string, 0, len(env.References)+len(env.InReplyTo)+1)
	for _, list := range [][]string{env.References, env.InReplyTo} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return append(ids, env.MessageId), nil
}
