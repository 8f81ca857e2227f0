// SPDX-License-Identifier: MPL-2.0

package reload

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/invowk/componentry/pkg/component"
)

// DefaultExclude names the components left out of reload re-dispatch
// when no exclude list is configured.
var DefaultExclude = []string{"Tracing"}

type (
	// SkipFunc reports whether a component is left out of a reload run.
	SkipFunc func(component.Descriptor) bool

	// RunFunc performs one reload run. cycle identifies the reload cycle.
	RunFunc func(ctx context.Context, cycle string, skip SkipFunc) error

	// Coordinator guards reload runs with a boolean latch. It is not safe
	// for concurrent use; the host serializes its reload signals.
	Coordinator struct {
		run      RunFunc
		exclude  []string
		optOut   func(component.Descriptor) bool
		logger   *slog.Logger
		prepared bool
		cycles   int
		newID    func() string
	}

	// Option configures a Coordinator.
	Option func(*Coordinator)
)

// WithOptOut adds a predicate for components that opted out of reloading,
// such as those whose initializer sets reload to false.
func WithOptOut(fn func(component.Descriptor) bool) Option {
	return func(c *Coordinator) {
		c.optOut = fn
	}
}

// WithIDGenerator replaces the uuid-based cycle id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		c.newID = fn
	}
}

// New creates a coordinator. A nil exclude list selects DefaultExclude; an
// empty non-nil list excludes nothing. The latch starts prepared because the
// boot pass already ran the hooks.
func New(run RunFunc, exclude []string, logger *slog.Logger, opts ...Option) *Coordinator {
	if exclude == nil {
		exclude = DefaultExclude
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Coordinator{
		run:      run,
		exclude:  slices.Clone(exclude),
		logger:   logger,
		prepared: true,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeforeUnload records that the host is about to unload code.
func (c *Coordinator) BeforeUnload() {
	c.prepared = false
}

// AfterReload runs the reload pass unless one already ran since the last
// BeforeUnload. It reports whether a run happened.
func (c *Coordinator) AfterReload(ctx context.Context) (bool, error) {
	if c.prepared {
		c.logger.Debug("reload signal ignored, components already prepared")
		return false, nil
	}
	c.prepared = true
	c.cycles++

	cycle := c.newID()
	c.logger.Debug("reloading components", "cycle", cycle, "excluded", c.exclude)
	if err := c.run(ctx, cycle, c.Skip); err != nil {
		return true, err
	}
	return true, nil
}

// Skip reports whether d is left out of reload runs. Excluding a component
// also excludes its sub-components.
func (c *Coordinator) Skip(d component.Descriptor) bool {
	for _, ex := range c.exclude {
		if d.Name == ex || strings.HasPrefix(d.Name, ex+component.Separator) {
			return true
		}
	}
	return c.optOut != nil && c.optOut(d)
}

// Prepared reports the latch state.
func (c *Coordinator) Prepared() bool {
	return c.prepared
}

// Cycles returns the number of reload runs started.
func (c *Coordinator) Cycles() int {
	return c.cycles
}

// Exclude returns the configured exclude list.
func (c *Coordinator) Exclude() []string {
	return slices.Clone(c.exclude)
}
