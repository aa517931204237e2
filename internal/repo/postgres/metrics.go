package postgres

// Observer wraps a store operation for timing and error accounting. Repos
// run their pool calls through it; the prometheus db collector is the
// production implementation.
type Observer func(op string, fn func() error) error

func observe(obs Observer, op string, fn func() error) error {
	if obs == nil {
		return fn()
	}

	return obs(op, fn)
}
