package worker

// the following backends are always enabled
import (
	_ "git.sr.ht/~rjarry/mthreads/worker/maildir"
	_ "git.sr.ht/~rjarry/mthreads/worker/mbox"
)
