package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jusunglee/fidelbot/internal/db"
	"github.com/jusunglee/fidelbot/internal/db/dbopen"
	"github.com/jusunglee/fidelbot/internal/logger"
	"github.com/jusunglee/fidelbot/internal/translation"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

const maxLineBytes = 1 << 20

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("translit")
	var (
		history = fs.StringLong("history", "", "Record transliterations to this database (PostgreSQL URL or SQLite path)")
		user    = fs.StringLong("user", os.Getenv("USER"), "User ID stored with history rows")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("TRANSLIT")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	// stdout carries the transliteration, so logs go to stderr.
	log := logger.NewWithWriter(os.Stderr, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo db.Repository
	if *history != "" {
		r, err := dbopen.Open(ctx, *history)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer r.Close()
		repo = r
	}

	t := &translator{
		service: translation.NewService(repo),
		log:     log,
		userID:  *user,
	}
	return t.run(ctx, fs.GetArgs(), os.Stdin, os.Stdout)
}

type translator struct {
	service *translation.Service
	log     *slog.Logger
	userID  string
}

// run transliterates args joined by spaces, or stdin line by line when args
// is empty. Stdin line endings are written back exactly as read, so CRLF
// input stays CRLF and a missing final newline stays missing.
func (t *translator) run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 {
		_, err := fmt.Fprintln(stdout, t.transliterate(ctx, strings.Join(args, " ")))
		return err
	}

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanLinesWithEnding)
	w := bufio.NewWriter(stdout)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ending := splitLineEnding(scanner.Text())
		if _, err := io.WriteString(w, t.transliterate(ctx, line)+ending); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return w.Flush()
}

// scanLinesWithEnding is bufio.ScanLines without stripping the terminator.
func scanLinesWithEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func splitLineEnding(line string) (body, ending string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

func (t *translator) transliterate(ctx context.Context, text string) string {
	result, err := t.service.Transliterate(ctx, translation.Request{
		Source:    db.SourceCLI,
		ChannelID: "cli",
		UserID:    t.userID,
		Text:      text,
	})
	if err != nil {
		t.log.WarnContext(ctx, "failed to record transliteration", "error", err)
	}
	return result.Output
}
