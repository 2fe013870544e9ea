package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rod drives a Chromium page through the DevTools protocol.
type Rod struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

// LaunchRod starts a browser according to opts and opens a blank page.
func LaunchRod(ctx context.Context, opts Options) (Driver, error) {
	l := launcher.New().Headless(opts.Headless).Context(ctx)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if opts.SlowMoMs > 0 {
		browser = browser.SlowMotion(time.Duration(opts.SlowMoMs) * time.Millisecond)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if opts.Width > 0 && opts.Height > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1.0,
		}); err != nil {
			_ = browser.Close()
			l.Kill()
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	return &Rod{browser: browser, page: page, launcher: l}, nil
}

func (r *Rod) pageFor(ctx context.Context) (*rod.Page, error) {
	if r.page == nil {
		return nil, ErrClosed
	}
	return r.page.Context(ctx), nil
}

// Goto navigates and waits for the load event.
func (r *Rod) Goto(ctx context.Context, url string) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// Fill replaces the value of the input matching selector.
func (r *Rod) Fill(ctx context.Context, selector, value string) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

// Click left-clicks the element matching selector.
func (r *Rod) Click(ctx context.Context, selector string) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// QuerySelector looks the selector up once, without waiting for it to appear.
func (r *Rod) QuerySelector(ctx context.Context, selector string) (Element, error) {
	p, err := r.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	found, el, err := p.Has(selector)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return rodElement{el: el}, nil
}

// Screenshot captures the viewport to path.
func (r *Rod) Screenshot(ctx context.Context, path string) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	data, err := p.Screenshot(false, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Evaluate runs script, a function expression, with args.
func (r *Rod) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	p, err := r.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	res, err := p.Eval(script, args...)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}

// Close shuts the browser down. It is safe to call more than once.
func (r *Rod) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser, r.page = nil, nil
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}
