// Command scout answers a single research query from the command line and
// writes the answer to answers/<id>.md.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/scoutagent/scout/config"
	"github.com/scoutagent/scout/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scout:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default: ./scout.yaml)")
	outDir := flag.String("out", "answers", "directory for answer artifacts")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		return fmt.Errorf("usage: scout [flags] \"your question\"")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	answer, err := a.Loop.Run(ctx, query)
	if err != nil {
		return err
	}

	if a.Store != nil {
		if _, err := a.Store.Save(ctx, query, answer); err != nil {
			logger.Warn().Err(err).Msg("could not save answer to research store")
		}
	}

	id, err := writeArtifact(*outDir, query, answer)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

// writeArtifact stores the answer as a markdown file and returns its ID.
func writeArtifact(dir, query, answer string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	id := uuid.New().String()
	body := fmt.Sprintf("# %s\n\n%s\n", query, answer)
	path := filepath.Join(dir, id+".md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return id, nil
}
