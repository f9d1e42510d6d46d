package reconcile

import (
	"context"
	"fmt"
	"strings"
)

// Executor carries out repair actions.
type Executor interface {
	// Import imports an item from the chain.
	Import(ctx context.Context, id int) error
	// Republish uploads the missing images of a stored item.
	Republish(ctx context.Context, id int) error
}

// Plan reconciles using the cached index and returns results with planned repairs.
// It does NOT execute actions; use Apply for that.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	idx, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}

	results := resultsFromIndex(idx)
	summary, actions := buildPlanFromResults(results)
	return &Plan{Results: results, Actions: actions, Summary: summary}, nil
}

// Apply executes the actions in a plan and invalidates the cached index.
// Returns the number of actions executed and the first error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func (e *Engine) Apply(ctx context.Context, plan *Plan, exec Executor, opts Options) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}
	defer e.Invalidate()

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		switch action.Type {
		case ActionImport:
			err = exec.Import(ctx, action.ID)
		case ActionRepublish:
			err = exec.Republish(ctx, action.ID)
		default:
			err = fmt.Errorf("unknown action %q", action.Type)
		}
		if err != nil {
			return executed, fmt.Errorf("failed to %s item %d: %w", action.Type, action.ID, err)
		}
		executed++
	}
	return executed, nil
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
func buildPlanFromResults(results []Result) (Summary, []Action) {
	var summary Summary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		if result.DBPresent && !result.ChainPresent {
			summary.Orphaned++
		}

		// On chain but never imported; the import publishes every image too.
		if result.ChainPresent && !result.DBPresent {
			summary.MissingDB++
			summary.ImportActions++
			actions = append(actions, Action{Type: ActionImport, ID: result.ID, Reason: "missing in: database"})
			continue
		}

		if result.DBPresent && !result.StorageComplete() {
			summary.MissingStorage++
			if result.ChainPresent {
				summary.RepublishActions++
				actions = append(actions, Action{
					Type:   ActionRepublish,
					ID:     result.ID,
					Reason: "missing in: " + strings.Join(result.MissingStorage(), ", "),
				})
			}
		}
	}

	return summary, actions
}
