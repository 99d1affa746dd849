package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/psclink/internal/engine"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/provisioning/destroy"
	"github.com/imamik/psclink/internal/ui/tui"
)

// DestroyOptions configures Destroy.
type DestroyOptions struct {
	// Yes skips the confirmation.
	Yes bool

	// TUI shows the bubbletea progress view when stdout is a terminal.
	TUI bool

	// RemoveStack deletes the stack and its history after the resources.
	RemoveStack bool

	// PurgeBackend also empties and deletes the S3 state bucket.
	PurgeBackend bool
}

// Factory function variables for destroy - can be replaced in tests.
var (
	// newDestroyProvisioner creates the destroy phase.
	newDestroyProvisioner = func(opts destroy.Options) provisioning.Phase {
		return destroy.NewProvisioner(opts)
	}

	// runDestroyTUI runs the destroy phase inside the progress view.
	runDestroyTUI = tui.RunDestroyTUI
)

// Destroy deletes every resource of the stack, optionally removing the stack
// and purging the state bucket.
func Destroy(ctx context.Context, configPath string, opts DestroyOptions) error {
	s, err := openSession(ctx, configPath, engine.Options{})
	if err != nil {
		return err
	}

	if !opts.Yes {
		if !isInteractiveTTY() {
			return errors.New("destroy needs --yes when not running in a terminal")
		}
		ok, err := confirm(fmt.Sprintf("Destroy every resource of stack %s?", s.stack.Name()))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return errCanceled
		}
	}

	phase := newDestroyProvisioner(destroy.Options{
		RemoveStack:  opts.RemoveStack,
		PurgeBackend: opts.PurgeBackend,
	})

	useTUI := opts.TUI && globals.LogFormat == LogFormatText && isInteractiveTTY()
	pctx := s.provisioningContext(ctx, s.observer)
	if err := s.execute(pctx, []provisioning.Phase{phase}, useTUI, runDestroyTUI); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Stack %s destroyed.\n", s.stack.Name())
	return nil
}
