package main

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/sshnake/internal/config"
	"github.com/tomz197/sshnake/internal/leaderboard"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// pageData fills index.html.
type pageData struct {
	SSHHost string
	SSHPort string
	Entries []scoreRow
}

// scoreRow is one leaderboard line for the page and the JSON endpoint.
type scoreRow struct {
	Rank     int       `json:"rank"`
	Name     string    `json:"nickName"`
	Score    int       `json:"score"`
	Distance int       `json:"distance"`
	Date     time.Time `json:"date"`
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
		Level:           config.GetLogLevel("LOG_LEVEL"),
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")
	boardPath := config.GetEnv("SNAKE_LEADERBOARD_PATH", leaderboard.DefaultPath)

	board := leaderboard.New(leaderboard.NewFileStore(boardPath), logger)

	addr := net.JoinHostPort(host, port)
	logger.Info("Starting web server", "addr", "http://"+addr, "leaderboard", boardPath)
	if err := http.ListenAndServe(addr, newHandler(board, sshHost, sshPort, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// newHandler serves the landing page and the leaderboard as JSON.
// The board is reloaded per request since the SSH server writes the same file.
func newHandler(board *leaderboard.Leaderboard, sshHost, sshPort string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{
			SSHHost: sshHost,
			SSHPort: sshPort,
			Entries: rows(board.Reload()),
		}
		if err := pageTemplate.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	mux.HandleFunc("GET /leaderboard.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows(board.Reload())); err != nil {
			logger.Error("encode leaderboard", "err", err)
		}
	})

	return mux
}

func rows(entries []leaderboard.Entry) []scoreRow {
	out := make([]scoreRow, len(entries))
	for i, e := range entries {
		out[i] = scoreRow{
			Rank:     i + 1,
			Name:     e.Name,
			Score:    e.Score,
			Distance: e.Distance,
			Date:     e.Timestamp,
		}
	}
	return out
}
