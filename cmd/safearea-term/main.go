// Command safearea-term previews the safe area overlay in a terminal.
// Drag the handles with the mouse; logs go to $SAFEAREA_LOG if set.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/term"
	xterm "golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("safearea-term needs an interactive terminal")
	}

	log.SetOutput(io.Discard)
	if path := os.Getenv("SAFEAREA_LOG"); path != "" {
		f, err := tea.LogToFile(path, "safearea")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Printf("insets %v", cfg.Insets)

	p := tea.NewProgram(
		term.New(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
