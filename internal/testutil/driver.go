package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/e2e2d/internal/driver"
)

// pngHeader is written as screenshot content so artifacts exist on disk.
var pngHeader = []byte("\x89PNG\r\n\x1a\n")

// FakeDriver is an in-memory driver.Driver for tests.
//
// Elements maps selectors of present elements to their text. Errors injects
// failures keyed by "goto:<url>", "fill:<selector>", "click:<selector>",
// "query:<selector>", "screenshot" and "evaluate". OnClick runs after a
// successful click on the selector and may mutate the page.
//
// Every call is appended to Calls, e.g. "click #login".
type FakeDriver struct {
	URL      string
	Elements map[string]string
	Errors   map[string]error
	OnClick  map[string]func(d *FakeDriver)

	Calls       []string
	Screenshots []string
	Scripts     []string
	CloseCount  int
}

// NewFakeDriver returns a driver whose page contains elements.
func NewFakeDriver(elements map[string]string) *FakeDriver {
	if elements == nil {
		elements = map[string]string{}
	}
	return &FakeDriver{
		Elements: elements,
		Errors:   map[string]error{},
		OnClick:  map[string]func(*FakeDriver){},
	}
}

// Launcher returns a driver.Launcher handing out d. The options it was
// called with are stored in *opts when opts is non-nil.
func (d *FakeDriver) Launcher(opts *driver.Options) driver.Launcher {
	return func(ctx context.Context, o driver.Options) (driver.Driver, error) {
		if opts != nil {
			*opts = o
		}
		return d, nil
	}
}

func (d *FakeDriver) fail(key string) error {
	if err, ok := d.Errors[key]; ok {
		return err
	}
	return nil
}

func (d *FakeDriver) Goto(ctx context.Context, url string) error {
	d.Calls = append(d.Calls, "goto "+url)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fail("goto:" + url); err != nil {
		return err
	}
	d.URL = url
	return nil
}

func (d *FakeDriver) Fill(ctx context.Context, selector, value string) error {
	d.Calls = append(d.Calls, "fill "+selector+" "+value)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fail("fill:" + selector); err != nil {
		return err
	}
	if _, ok := d.Elements[selector]; !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	d.Elements[selector] = value
	return nil
}

func (d *FakeDriver) Click(ctx context.Context, selector string) error {
	d.Calls = append(d.Calls, "click "+selector)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fail("click:" + selector); err != nil {
		return err
	}
	if _, ok := d.Elements[selector]; !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	if fn := d.OnClick[selector]; fn != nil {
		fn(d)
	}
	return nil
}

func (d *FakeDriver) QuerySelector(ctx context.Context, selector string) (driver.Element, error) {
	d.Calls = append(d.Calls, "query "+selector)
	if err := d.fail("query:" + selector); err != nil {
		return nil, err
	}
	text, ok := d.Elements[selector]
	if !ok {
		return nil, nil
	}
	return FakeElement(text), nil
}

func (d *FakeDriver) Screenshot(ctx context.Context, path string) error {
	d.Calls = append(d.Calls, "screenshot")
	if err := d.fail("screenshot"); err != nil {
		return err
	}
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		return err
	}
	d.Screenshots = append(d.Screenshots, path)
	return nil
}

func (d *FakeDriver) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	d.Calls = append(d.Calls, "evaluate")
	if err := d.fail("evaluate"); err != nil {
		return nil, err
	}
	d.Scripts = append(d.Scripts, script)
	return true, nil
}

func (d *FakeDriver) Close() error {
	d.Calls = append(d.Calls, "close")
	d.CloseCount++
	return nil
}

// FakeElement is an element whose text is fixed.
type FakeElement string

func (e FakeElement) Text(ctx context.Context) (string, error) {
	return string(e), nil
}

var _ driver.Driver = (*FakeDriver)(nil)
