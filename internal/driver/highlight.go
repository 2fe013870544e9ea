package driver

import (
	"context"
	"fmt"
)

// Scripts toggling the visual marker on an element. The previous outline is
// kept in a data attribute so Unhighlight can restore it.
const (
	highlightScript = `(sel) => {
	const el = document.querySelector(sel);
	if (!el) { return false; }
	el.dataset.e2e2dOutline = el.style.outline;
	el.style.outline = "3px solid #e5007d";
	return true;
}`
	unhighlightScript = `(sel) => {
	const el = document.querySelector(sel);
	if (!el) { return false; }
	el.style.outline = el.dataset.e2e2dOutline || "";
	delete el.dataset.e2e2dOutline;
	return true;
}`
)

// Highlight outlines the element matching selector.
func Highlight(ctx context.Context, d Driver, selector string) error {
	if _, err := d.Evaluate(ctx, highlightScript, selector); err != nil {
		return fmt.Errorf("highlight %s: %w", selector, err)
	}
	return nil
}

// Unhighlight restores the element's outline.
func Unhighlight(ctx context.Context, d Driver, selector string) error {
	if _, err := d.Evaluate(ctx, unhighlightScript, selector); err != nil {
		return fmt.Errorf("unhighlight %s: %w", selector, err)
	}
	return nil
}
