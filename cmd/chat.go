package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/spaceo-chat/internal/adapters/render/transcript"
	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/bnema/spaceo-chat/internal/logging"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	chatPrompt      = "you> "
	historyFileName = "chat_history"
	historyFileMode = 0o600
	exportFileMode  = 0o644
)

var errQuit = errors.New("quit")

type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// linerReader adds line editing and a persistent history on a terminal.
type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader(historyPath string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state, historyPath: historyPath}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	input, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		r.state.AppendHistory(input)
	}
	return input, nil
}

func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyPath), 0o700); err == nil {
		if f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, historyFileMode); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return r.state.Close()
}

// scannerReader reads piped input line by line.
type scannerReader struct {
	scanner *bufio.Scanner
}

func newScannerReader(in io.Reader) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(in)}
}

func (r *scannerReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scannerReader) Close() error {
	return nil
}

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()

			var reader lineReader
			if in == os.Stdin && logging.IsTerminal(os.Stdin) {
				reader = newLinerReader(filepath.Join(filepath.Dir(app.cfg.SessionsDir), historyFileName))
			} else {
				reader = newScannerReader(in)
			}
			defer func() { _ = reader.Close() }()

			return runChat(cmd, app, reader)
		},
	}
}

func runChat(cmd *cobra.Command, app *app, reader lineReader) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	accountID, err := app.sessions.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	_, _ = fmt.Fprintln(out, app.renderer.Header(accountID))
	_, _ = fmt.Fprintln(out, "Type a message, or /help for commands.")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := reader.ReadLine(chatPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := runSlashCommand(cmd, app, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			continue
		}

		message, err := submitWithSpinner(ctx, app, cmd.ErrOrStderr(), line, true)
		if errors.Is(err, domain.ErrEmptyMessage) {
			continue
		}
		if message.Text != "" {
			_, _ = fmt.Fprintln(out, app.renderer.Message(message))
		}
	}
}

func runSlashCommand(cmd *cobra.Command, app *app, line string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case "/quit", "/exit":
		return errQuit
	case "/help":
		_, _ = fmt.Fprintln(out, chatHelp)
		return nil
	case "/account":
		accountID, err := app.sessions.CurrentAccount(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "account: %s\n", accountID)
		return nil
	case "/history":
		_, _ = fmt.Fprintln(out, app.renderer.Transcript(app.chat.Transcript(), app.chat.Status()))
		return nil
	case "/upload":
		if len(fields) < 2 {
			return errors.New("usage: /upload <path...>")
		}
		result, err := app.uploads.Drop(ctx, fields[1:]...)
		if err != nil {
			return err
		}
		writeDropSummary(out, result)
		return nil
	case "/export":
		if len(fields) != 2 {
			return errors.New("usage: /export <file.html>")
		}
		if err := os.WriteFile(fields[1], transcript.HTMLDocument(app.chat.Transcript()), exportFileMode); err != nil {
			return fmt.Errorf("export transcript: %w", err)
		}
		_, _ = fmt.Fprintf(out, "exported: %s\n", fields[1])
		return nil
	default:
		return fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

const chatHelp = `Commands:
  /upload <path...>   upload files (jpeg, png, pdf, txt, csv)
  /export <file>      save the conversation as HTML
  /history            print the conversation so far
  /account            show the account pinned to this session
  /help               show this help
  /quit               leave the chat`
