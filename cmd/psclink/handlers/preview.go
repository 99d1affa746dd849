package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/psclink/internal/engine"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/provisioning/deploy"
)

// Preview validates the configuration, ensures the state backend and
// reports the changes an apply would make. With diff set, the engine's
// detailed diff is written to stdout.
func Preview(ctx context.Context, configPath string, diff bool) error {
	opts := engine.Options{Diff: diff}
	if diff {
		opts.Progress = stdout
	}

	s, err := openSession(ctx, configPath, opts)
	if err != nil {
		return err
	}

	pctx := s.provisioningContext(ctx, s.observer)
	if err := runPipeline(pctx, planningPhases()); err != nil {
		return err
	}

	printPlan(s.stack.Name(), pctx.State.Preview)
	return nil
}

// Refresh reconciles the stack state with the live resources.
func Refresh(ctx context.Context, configPath string) error {
	s, err := openSession(ctx, configPath, engine.Options{})
	if err != nil {
		return err
	}

	pctx := s.provisioningContext(ctx, s.observer)
	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		deploy.NewRefreshPhase(),
	}
	if err := runPipeline(pctx, phases); err != nil {
		return err
	}

	var changes map[string]int
	if pctx.State.Refresh != nil {
		changes = pctx.State.Refresh.Changes
	}
	fmt.Fprintf(stdout, "Refreshed stack %s: %s\n", s.stack.Name(), deploy.Summary(changes))
	return nil
}

func printPlan(stack string, res *provisioning.OperationResult) {
	var changes map[string]int
	if res != nil {
		changes = res.Changes
	}
	fmt.Fprintf(stdout, "Plan for stack %s: %s\n", stack, deploy.Summary(changes))
}
