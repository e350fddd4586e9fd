package persistence

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/soa/pkg/errors"
)

// runBlocking runs fn on its own goroutine and waits for it. A panic in fn
// is reported as a task_join error. A context that is already done stops
// the call before any I/O starts.
func runBlocking(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "operation cancelled before start")
	}

	var g errgroup.Group
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf(errors.ErrorTypeTaskJoin, "blocking task panicked: %v", r)
			}
		}()
		return fn()
	})
	return g.Wait()
}

// query implements Persistence.Query on top of Load.
func query[T any](ctx context.Context, p Persistence[T], pred func(T) bool) (T, bool, error) {
	var zero T
	data, found, err := p.Load(ctx)
	if err != nil || !found {
		return zero, false, err
	}
	if !pred(data) {
		return zero, false, nil
	}
	return data, true, nil
}

func isEmpty[T any](ctx context.Context, p Persistence[T]) (bool, error) {
	n, err := p.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// wrap adds context to err, keeping its type when it already carries one.
func wrap(err error, fallback errors.ErrorType, message string) error {
	errType := errors.TypeOf(err)
	if errType == "" {
		errType = fallback
	}
	return errors.Wrap(err, errType, message)
}
