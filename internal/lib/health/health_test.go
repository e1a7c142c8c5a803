package health

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestChecker_Check(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := errors.New("connection refused")

	c := NewChecker(map[string]Pinger{"postgres": ok, "redis": ok})
	assert.NoError(t, c.Check(context.Background()))

	c = NewChecker(map[string]Pinger{
		"postgres": ok,
		"redis":    pingerFunc(func(context.Context) error { return down }),
	})
	err := c.Check(context.Background())
	assert.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "redis")
}
