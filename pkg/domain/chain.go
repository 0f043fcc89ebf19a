package domain

import (
	"errors"
	"fmt"
)

// Step is one calculator in a guided chain.
type Step struct {
	// Slug identifies the calculator page (e.g. "bmi").
	Slug        string `json:"slug" yaml:"slug" mapstructure:"slug"`
	Label       string `json:"label" yaml:"label" mapstructure:"label"`
	Description string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
}

// Chain is a configured, ordered sequence of calculator steps.
// Step order is fixed at configuration time and is the only ordering authority.
type Chain struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	Steps       []Step `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// StepAt returns the step at index i, or false when i is out of range.
func (c *Chain) StepAt(i int) (Step, bool) {
	if i < 0 || i >= len(c.Steps) {
		return Step{}, false
	}
	return c.Steps[i], true
}

// IndexOf returns the position of slug in the chain, or -1.
func (c *Chain) IndexOf(slug string) int {
	for i, s := range c.Steps {
		if s.Slug == slug {
			return i
		}
	}
	return -1
}

// Contains reports whether slug is one of the chain's steps.
func (c *Chain) Contains(slug string) bool {
	return c.IndexOf(slug) >= 0
}

// Validate checks the static configuration of a chain.
// All problems are reported together.
func (c *Chain) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("chain id is required"))
	}
	if len(c.Steps) == 0 {
		errs = append(errs, fmt.Errorf("chain %q has no steps", c.ID))
	}

	seen := make(map[string]bool, len(c.Steps))
	for i, s := range c.Steps {
		if s.Slug == "" {
			errs = append(errs, fmt.Errorf("chain %q: step %d has no slug", c.ID, i))
			continue
		}
		// A repeated slug would make completedSlugs ambiguous.
		if seen[s.Slug] {
			errs = append(errs, fmt.Errorf("chain %q: duplicate step slug %q", c.ID, s.Slug))
		}
		seen[s.Slug] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChain, errors.Join(errs...))
	}
	return nil
}
