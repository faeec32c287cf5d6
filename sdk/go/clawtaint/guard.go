package clawtaint

import "context"

// ToolFunc is the function signature that Wrap guards. The caller
// provides an Action describing the intended operation.
type ToolFunc func(ctx context.Context, action Action) (any, error)

// Wrap returns a new ToolFunc that runs the gate before calling fn.
// Every call updates the session's trust state; if the gate blocks the
// action's command, fn is never called and a *BlockedError is returned.
func (c *Client) Wrap(fn ToolFunc) ToolFunc {
	return func(ctx context.Context, action Action) (any, error) {
		res := c.Handle(action)
		if !res.Allowed() {
			return nil, &BlockedError{Action: action, Result: res}
		}
		return fn(ctx, action)
	}
}
