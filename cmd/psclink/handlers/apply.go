package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/imamik/psclink/internal/engine"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/provisioning/backend"
	"github.com/imamik/psclink/internal/provisioning/deploy"
	"github.com/imamik/psclink/internal/ui/tui"
)

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Yes skips the confirmation after the preview.
	Yes bool

	// TUI shows the bubbletea progress view when stdout is a terminal.
	TUI bool
}

// errCanceled is returned when the user declines a confirmation.
var errCanceled = errors.New("canceled by user")

// Factory function variables for apply - can be replaced in tests.
var (
	// confirm asks a yes/no question.
	confirm = defaultConfirm

	// runApplyTUI runs phases inside the progress view.
	runApplyTUI = tui.RunApplyTUI
)

// Apply previews the topology, asks for confirmation unless opts.Yes is set,
// and then updates the stack.
func Apply(ctx context.Context, configPath string, opts ApplyOptions) error {
	s, err := openSession(ctx, configPath, engine.Options{})
	if err != nil {
		return err
	}

	useTUI := opts.TUI && globals.LogFormat == LogFormatText && isInteractiveTTY()
	planning := planningPhases()
	up := []provisioning.Phase{deploy.NewUpPhase()}
	pctx := s.provisioningContext(ctx, s.observer)

	if opts.Yes {
		return s.execute(pctx, append(planning, up...), useTUI, runApplyTUI)
	}

	if !isInteractiveTTY() {
		return errors.New("apply needs --yes when not running in a terminal")
	}

	if err := runPipeline(pctx, planning); err != nil {
		return err
	}

	if !pctx.State.HasChanges() {
		fmt.Fprintf(stdout, "No changes. Stack %s is up to date.\n", s.stack.Name())
		return nil
	}

	ok, err := confirm(fmt.Sprintf("Apply %s to stack %s?", deploy.Summary(pctx.State.Preview.Changes), s.stack.Name()))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return errCanceled
	}

	return s.execute(pctx, up, useTUI, runApplyTUI)
}

// planningPhases are the phases every preview and apply starts with.
func planningPhases() []provisioning.Phase {
	return []provisioning.Phase{
		provisioning.NewValidationPhase(),
		backend.NewProvisioner(),
		deploy.NewPreviewPhase(),
	}
}

// progressView runs phases inside a TUI program.
type progressView func(name, region string, phases []string, run tui.Runner) error

// execute runs phases either in the progress view or on the console, and
// prints the resulting outputs in the console case.
func (s *session) execute(pctx *provisioning.Context, phases []provisioning.Phase, useTUI bool, view progressView) error {
	if useTUI {
		return view(s.cfg.Name, s.cfg.Region, phaseNames(phases), func(obs provisioning.Observer) (map[string]any, error) {
			pctx.Observer = obs
			err := runPipeline(pctx, phases)
			return pctx.State.Outputs, err
		})
	}

	if err := runPipeline(pctx, phases); err != nil {
		return err
	}
	if len(pctx.State.Outputs) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, tui.RenderOutputs(pctx.State.Outputs))
	}
	return nil
}

func defaultConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}
