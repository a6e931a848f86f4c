package cli

import (
	"context"
	"strconv"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	user, err := c.sessionStatus(ctx)
	if err != nil {
		return err
	}
	if user == "" {
		c.io.Println("Session: not authenticated")
		c.io.Println("Run 'jobcache login' to authenticate.")
	} else {
		c.io.Printf("Session: %s\n", user)
	}

	health, err := c.apiClient.Health(ctx)
	switch {
	case err != nil:
		c.io.Printf("Server:  unreachable (%v), working from local cache\n", err)
	case health.Version != "":
		c.io.Printf("Server:  %s (version %s)\n", health.Status, health.Version)
	default:
		c.io.Printf("Server:  %s\n", health.Status)
	}
	c.io.Println()

	rows := make([][]string, 0, len(c.resources))
	pendingTotal := 0
	for _, r := range c.resources {
		lastSync := "never"
		if ts, ok := r.lastSync(ctx); ok {
			lastSync = ts.Local().Format(time.DateTime)
		}
		pending := r.pending()
		pendingTotal += pending

		rows = append(rows, []string{r.name(), lastSync, yesNo(r.isStale(ctx)), strconv.Itoa(pending)})
	}
	c.io.Println(renderTable([]string{"COLLECTION", "LAST SYNC", "STALE", "PENDING"}, rows))

	if pendingTotal > 0 {
		c.io.Printf("⚠️  %d change(s) waiting for server confirmation\n", pendingTotal)
	}

	return nil
}
