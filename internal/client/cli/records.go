package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

func (c *Cli) runList(ctx context.Context, args []string) error {
	refresh := slices.Contains(args, "--refresh")
	args = slices.DeleteFunc(slices.Clone(args), func(a string) bool { return a == "--refresh" })
	if len(args) != 1 {
		return fmt.Errorf("usage: jobcache list <collection> [--refresh]")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	v, err := r.fetch(ctx, refresh)
	if err != nil {
		return err
	}

	c.io.Printf("=== %s ===\n", r.name())
	c.io.Println()

	if v.Err != "" {
		c.io.Printf("Warning: server unavailable, showing cached data (%s)\n", v.Err)
		c.io.Println()
	}

	if len(v.Rows) == 0 {
		c.io.Printf("No %s found.\n", r.name())
		return nil
	}

	c.io.Println(renderTable(r.columns(), v.Rows))
	c.io.Printf("%d record(s)\n", len(v.Rows))
	if v.Pending > 0 {
		c.io.Printf("%s marks %d change(s) not yet confirmed by the server\n", pendingMark, v.Pending)
	}

	return nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: jobcache get <collection> <id>")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	if _, err := r.fetch(ctx, false); err != nil {
		return err
	}

	item, ok := r.get(args[1])
	if !ok {
		return fmt.Errorf("%s record %s not found", r.name(), args[1])
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format record: %w", err)
	}
	c.io.Println(string(data))

	return nil
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: jobcache add <collection> key=value...")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	id, err := r.create(ctx, args[1:])
	if err != nil {
		return err
	}

	c.io.Printf("✓ Created %s record %s\n", r.name(), id)
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: jobcache update <collection> <id> key=value...")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	// Текущая версия записи нужна для оптимистичного отображения
	if _, err := r.fetch(ctx, false); err != nil {
		return err
	}

	if err := r.update(ctx, args[1], args[2:]); err != nil {
		return err
	}

	c.io.Printf("✓ Updated %s record %s\n", r.name(), args[1])
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: jobcache delete <collection> <id>")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	if _, err := r.fetch(ctx, false); err != nil {
		return err
	}

	if err := r.remove(ctx, args[1]); err != nil {
		return err
	}

	c.io.Printf("✓ Deleted %s record %s\n", r.name(), args[1])
	return nil
}
