package main

import (
	"errors"
	"fmt"
)

type releaser interface {
	CleanUp() error
}

// releaseFunc adapts a plain cleanup function
type releaseFunc func() error

func (f releaseFunc) CleanUp() error { return f() }

type builtResource struct {
	name string
	res  releaser
}

// builtList records what setup has created so a failed setup can give it back
type builtList struct {
	items []builtResource
}

func (b *builtList) add(name string, r releaser) {
	b.items = append(b.items, builtResource{name: name, res: r})
}

// release cleans up in reverse build order and tries every item
func (b *builtList) release() error {
	var errs []error
	for i := len(b.items) - 1; i >= 0; i-- {
		item := b.items[i]
		if err := item.res.CleanUp(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.name, err))
		}
	}
	b.items = nil
	return errors.Join(errs...)
}
