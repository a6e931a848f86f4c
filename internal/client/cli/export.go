package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"
)

// exportFile формат файла выгрузки
type exportFile struct {
	ExportedAt time.Time `json:"exported_at"`
	Collection string    `json:"collection"`
	Items      []any     `json:"items"`
}

func (c *Cli) runExport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: jobcache export <collection> <file>")
	}

	r, err := c.resource(args[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	v, err := r.fetch(ctx, false)
	if err != nil {
		return err
	}
	if v.Err != "" {
		c.io.Printf("Warning: server unavailable, exporting cached data (%s)\n", v.Err)
	}

	data, err := json.MarshalIndent(exportFile{
		ExportedAt: time.Now().UTC(),
		Collection: r.name(),
		Items:      v.Items,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.name(), err)
	}

	// Файл либо целиком новый, либо прежний
	if err := atomic.WriteFile(args[1], bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}

	c.io.Printf("✓ Exported %d %s record(s) to %s\n", len(v.Items), r.name(), args[1])
	return nil
}
