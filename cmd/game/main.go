package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/tomz197/sshnake/internal/config"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/client"
	"github.com/tomz197/sshnake/internal/loop/engine"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Stdout is the game screen; logs go to a file or nowhere.
	logger, closeLog, err := newLogger(config.GetEnv("SNAKE_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer closeLog()

	settings, err := engine.SettingsFromEnv()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	store := leaderboard.NewFileStore(config.GetEnv("SNAKE_LEADERBOARD_PATH", leaderboard.DefaultPath))
	board := leaderboard.New(store, logger)
	nickname := config.GetEnv("SNAKE_NICKNAME", config.GetEnv("USER", leaderboard.AnonymousNickname))

	eng, err := engine.New(settings, engine.Options{
		Nickname:    nickname,
		Logger:      logger,
		Leaderboard: board,
	})
	if err != nil {
		return err
	}

	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go eng.Run(ctx)
	defer func() {
		cancel()
		<-eng.Done()
	}()

	logger.Info("game started", "player", nickname, "seed", settings.Seed, "leaderboard", store.Path())

	c := client.NewClient(eng, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username:    leaderboard.SanitizeName(nickname),
		Profile:     profile,
		Leaderboard: board,
		Logger:      logger,
	})
	return c.Run()
}

// newLogger returns a logger writing to path, or a discarding one when path is empty.
func newLogger(path string) (*log.Logger, func(), error) {
	level := config.GetLogLevel("LOG_LEVEL")
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "sshnake",
	})
	return logger, func() { _ = f.Close() }, nil
}
