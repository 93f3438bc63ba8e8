package library

import "os"

// InheritEnv returns env extended with the calling process's own
// environment when env is nil, matching a real console host's behavior of
// inheriting its parent's environment block when the caller doesn't supply
// one explicitly (§4.4). A non-nil env is passed through unchanged. An
// empty env does not give the child an empty environment: it encodes to
// the same block as nil, and the Agent starts a child whose block holds
// no entries with the Agent's own environment.
func InheritEnv(env []string) []string {
	if env != nil {
		return env
	}
	return os.Environ()
}
