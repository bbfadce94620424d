package state

import (
	"time"
)

// newLocalEnv creates environment with nothing configured yet, configuration
// and logging are set up after command line is parsed.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}
