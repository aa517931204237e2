package media

import (
	"context"
	"io"
)

// WithObserver wraps a Store so every call is reported to an observer
// (the prometheus media counter in production wiring).
func WithObserver(next Store, observe func(op string, fn func() error) error) Store {
	return &instrumented{next: next, observe: observe}
}

type instrumented struct {
	next    Store
	observe func(op string, fn func() error) error
}

func (s *instrumented) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	var url string

	err := s.observe("upload", func() error {
		var err error
		url, err = s.next.Upload(ctx, key, contentType, body)
		return err
	})

	return url, err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	return s.observe("delete", func() error {
		return s.next.Delete(ctx, key)
	})
}
