// Package driver defines the browser capabilities the harness relies on and
// a go-rod implementation of them.
package driver

import (
	"context"
	"errors"
)

// ErrClosed is returned by drivers used after Close.
var ErrClosed = errors.New("driver closed")

// Element is a handle to a DOM element found by QuerySelector.
type Element interface {
	// Text returns the element's rendered text.
	Text(ctx context.Context) (string, error)
}

// Driver is the UI automation surface used by a session. Implementations do
// not need to be safe for concurrent use.
type Driver interface {
	Goto(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	// QuerySelector returns the first matching element, or nil if there is none.
	QuerySelector(ctx context.Context, selector string) (Element, error)
	// Screenshot writes a PNG of the viewport to path.
	Screenshot(ctx context.Context, path string) error
	// Evaluate runs a JavaScript function expression in the page and returns
	// its JSON-decoded result.
	Evaluate(ctx context.Context, script string, args ...any) (any, error)
	Close() error
}

// Options configures a browser launch.
type Options struct {
	Headless bool
	SlowMoMs int
	Width    int
	Height   int
	Bin      string // browser binary; empty lets the launcher pick one
}

// Launcher starts a browser and returns a driver bound to a fresh page.
type Launcher func(ctx context.Context, opts Options) (Driver, error)
