package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/sshnake/internal/config"
	"github.com/tomz197/sshnake/internal/draw"
	"github.com/tomz197/sshnake/internal/leaderboard"
	"github.com/tomz197/sshnake/internal/loop/client"
	"github.com/tomz197/sshnake/internal/loop/engine"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	shutdownWait       = 15 * time.Second
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sshnake",
		Level:           config.GetLogLevel("LOG_LEVEL"),
	})

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	boardPath := config.GetEnv("SNAKE_LEADERBOARD_PATH", leaderboard.DefaultPath)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "leaderboard", boardPath)

	settings, err := engine.SettingsFromEnv()
	if err != nil {
		logger.Fatal("invalid settings", "err", err)
	}

	// One leaderboard shared by every session
	board := leaderboard.New(leaderboard.NewFileStore(boardPath), logger.WithPrefix("leaderboard"))
	games := newSessions(settings, board, config.GetEnv("SNAKE_SEED", "") != "", logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger.WithPrefix("ssh")),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect
	games.Shutdown(shutdownWait)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// sessions runs one engine per SSH session and coordinates shutdown.
type sessions struct {
	settings  engine.Settings
	board     *leaderboard.Leaderboard
	fixedSeed bool // SNAKE_SEED was set; every session replays the same food sequence
	logger    *log.Logger

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

func newSessions(settings engine.Settings, board *leaderboard.Leaderboard, fixedSeed bool, logger *log.Logger) *sessions {
	return &sessions{
		settings:  settings,
		board:     board,
		fixedSeed: fixedSeed,
		logger:    logger,
		shutdown:  make(chan struct{}),
	}
}

// Shutdown tells every session to show the shutdown screen and waits up to
// timeout for them to end.
func (s *sessions) Shutdown(timeout time.Duration) {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
	s.logger.Info("Notifying connected players about shutdown...")

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		s.logger.Info("All sessions ended")
	case <-time.After(timeout):
		s.logger.Warn("Sessions still open after shutdown wait", "timeout", timeout)
	}
}

// middleware handles SSH sessions and runs the game client.
func (s *sessions) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		s.wg.Add(1)
		defer s.wg.Done()

		user := leaderboard.SanitizeName(sess.User())
		logger := s.logger.With("user", user)
		logger.Info("New game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		if err := s.play(sess, pty, winCh, user, logger); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

func (s *sessions) play(sess ssh.Session, pty ssh.Pty, winCh <-chan ssh.Window, user string, logger *log.Logger) error {
	settings := s.settings
	if !s.fixedSeed {
		settings.Seed = time.Now().UnixNano()
	}
	eng, err := engine.New(settings, engine.Options{
		Nickname:    user,
		Logger:      logger,
		Leaderboard: s.board,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(sess.Context())
	go eng.Run(ctx)
	defer func() {
		cancel()
		<-eng.Done()
	}()

	// Create a terminal size tracker that updates on window changes
	sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
	go func() {
		for win := range winCh {
			sizeTracker.update(win.Width, win.Height)
		}
	}()

	c := client.NewClient(eng, bufio.NewReader(sess), sess, client.ClientOptions{
		TermSizeFunc: sizeTracker.getSize,
		Username:     user,
		Profile:      draw.ProfileFor(pty.Term, environ(sess.Environ(), "COLORTERM")),
		Leaderboard:  s.board,
		Logger:       logger,
		Shutdown:     s.shutdown,
	})
	return c.Run()
}

// environ looks key up in a KEY=value list.
func environ(env []string, key string) string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix)
		}
	}
	return ""
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
