package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/iudanet/jobcache/internal/models"
)

var shellCommands = []string{
	"register", "login", "logout", "status", "list", "get", "add", "update",
	"delete", "sync", "export", "help", "exit",
}

// runShell запускает интерактивный режим. Пока он открыт, устаревшие
// коллекции обновляются в фоне.
func (c *Cli) runShell(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.syncInterval > 0 {
		go c.syncService.Run(ctx, c.syncInterval)
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)
	c.readHistory(line)
	defer c.saveHistory(line)

	c.io.Println("jobcache shell. Type 'help' for commands, 'exit' to quit.")
	c.io.Println()

	for {
		input, err := line.Prompt("jobcache> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				c.io.Println("Bye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		done, err := c.execLine(ctx, input)
		if err != nil {
			c.io.Printf("Error: %v\n", err)
		}
		if done {
			c.io.Println("Bye!")
			return nil
		}
	}
}

// execLine выполняет одну строку shell; done сообщает о выходе
func (c *Cli) execLine(ctx context.Context, input string) (bool, error) {
	args, err := splitArgs(input)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit", "q":
		return true, nil
	case "shell":
		return false, fmt.Errorf("already in shell")
	}

	return false, c.Run(ctx, args)
}

// splitArgs делит строку на аргументы с учётом одинарных и двойных кавычек
func splitArgs(input string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)

	for _, r := range input {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}

	return args, nil
}

// completer дополняет команды и имена коллекций
func completer(line string) []string {
	fields := strings.Fields(line)
	trailing := strings.HasSuffix(line, " ")

	if len(fields) == 0 || (len(fields) == 1 && !trailing) {
		prefix := ""
		if len(fields) == 1 {
			prefix = strings.ToLower(fields[0])
		}
		var out []string
		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, prefix) {
				out = append(out, cmd)
			}
		}
		return out
	}

	if len(fields) == 1 || (len(fields) == 2 && !trailing) {
		prefix := ""
		if len(fields) == 2 {
			prefix = fields[1]
		}
		var out []string
		for _, name := range models.Collections() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, fields[0]+" "+name)
			}
		}
		return out
	}

	return nil
}

func (c *Cli) readHistory(line *liner.State) {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
}

func (c *Cli) saveHistory(line *liner.State) {
	if c.historyFile == "" {
		return
	}
	f, err := os.Create(c.historyFile)
	if err != nil {
		c.logger.Debug("Failed to save shell history", "error", err)
		return
	}
	_, _ = line.WriteHistory(f)
	_ = f.Close()
}
