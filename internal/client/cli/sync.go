package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/iudanet/jobcache/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context, args []string) error {
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	svc := c.syncService
	if len(args) > 0 {
		targets := make([]sync.Target, 0, len(args))
		for _, name := range args {
			r, err := c.resource(name)
			if err != nil {
				return err
			}
			targets = append(targets, r.target())
		}
		svc = sync.NewService(c.logger, targets...)
	}

	c.io.Println("=== Synchronization ===")
	c.io.Println()

	results, syncErr := svc.SyncAll(ctx, true)

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = "failed"
		}
		rows = append(rows, []string{
			res.Collection,
			strconv.Itoa(res.Items),
			strconv.Itoa(res.Pending),
			res.Duration.Round(time.Millisecond).String(),
			status,
		})
	}
	c.io.Println(renderTable([]string{"COLLECTION", "ITEMS", "PENDING", "TOOK", "STATUS"}, rows))

	if syncErr != nil {
		return fmt.Errorf("synchronization failed: %w", syncErr)
	}

	c.io.Println("✓ All collections synchronized")
	return nil
}
