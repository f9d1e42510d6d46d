package cmd

import (
	"fmt"
	"time"

	"borg-link/core/queue"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var enqueueOnly bool

// syncCmd fills the gaps between the contract and the database.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import every borg the contract has produced but the database lacks",
	Long: `Detects missing ids and imports them, then back-fills parent/child relations.

With --enqueue the ids are handed to the durable redis queue for the server's workers instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if enqueueOnly {
			if _, ok := a.queue.(*queue.RedisQueue); !ok {
				return fmt.Errorf("--enqueue requires redis; jobs would be lost when the command exits")
			}
			n, err := a.borg.Tasks().Sync(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("Enqueued missing borgs", zap.Int("count", n))
			return nil
		}

		missing, err := a.borg.Service().MissingIDs(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("Importing missing borgs", zap.Int("count", len(missing)))

		coordinator := a.borg.Coordinator()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(a.cfg.Queue.Workers, 1))
		for _, id := range missing {
			g.Go(func() error {
				if _, err := coordinator.SaveImported(gctx, id, false); err != nil {
					return fmt.Errorf("failed to import borg %d: %w", id, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		updated, err := coordinator.BackfillRelations(ctx)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			a.notifier.Propagate(ctx)
		}

		a.logger.Info("Sync completed",
			zap.Int("imported", len(missing)),
			zap.Int("relations_updated", updated),
			zap.Duration("execution_time", time.Since(startTime)),
		)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&enqueueOnly, "enqueue", false, "Enqueue the missing ids instead of importing them here")
	RootCmd.AddCommand(syncCmd)
}
