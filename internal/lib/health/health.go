package health

import (
	"context"
	"fmt"
)

// Pinger is a dependency which can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker pings named dependencies
type Checker struct {
	deps map[string]Pinger
}

func NewChecker(deps map[string]Pinger) *Checker {
	return &Checker{deps: deps}
}

// Check returns the first failing dependency
func (c *Checker) Check(ctx context.Context) error {
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
