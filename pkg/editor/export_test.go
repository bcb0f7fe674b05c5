package editor

import "context"

// ChangeAt applies a change event that arrived with the given stamp.
func (c *Controller) ChangeAt(ctx context.Context, stamp uint64, text string) error {
	return c.change(ctx, stamp, func() string { return text })
}

// Edited handles an edit event from the mounted editor.
func (c *Controller) Edited(ctx context.Context) error {
	return c.edited(ctx)
}
