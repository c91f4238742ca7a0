package vault

import (
	"context"
	"fmt"
)

// Command is a user action on a rendered item.
type Command struct {
	Kind   Kind
	Intent Intent
	ID     string
}

// Dispatcher routes commands from the display to controller operations.
type Dispatcher struct {
	c *Controller
}

func NewDispatcher(c *Controller) *Dispatcher {
	return &Dispatcher{c: c}
}

func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	switch {
	case cmd.Kind == KindLink && cmd.Intent == IntentOpen:
		return d.c.OpenLink(ctx, cmd.ID)
	case cmd.Kind == KindLink && cmd.Intent == IntentDelete:
		return d.c.DeleteLink(ctx, cmd.ID)
	case cmd.Kind == KindSession && cmd.Intent == IntentOpen:
		_, err := d.c.OpenSession(ctx, cmd.ID)
		return err
	case cmd.Kind == KindSession && cmd.Intent == IntentToggleFavorite:
		_, err := d.c.ToggleFavorite(ctx, cmd.ID)
		return err
	case cmd.Kind == KindSession && cmd.Intent == IntentDelete:
		return d.c.DeleteSession(ctx, cmd.ID)
	default:
		return fmt.Errorf("vault: no %s action for %s", cmd.Intent, cmd.Kind)
	}
}
