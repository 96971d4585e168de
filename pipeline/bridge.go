package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	sent "github.com/revelaction/terms/sentence"
)

// maxLine is the longest response line accepted from the bridge.
const maxLine = 64 * 1024 * 1024

// Bridge runs texts through an external spacy process.
//
// The process is started once with the model name as last argument. It
// answers a first line to signal that the model is loaded:
//
//	{"ready": true, "model": "ru_core_news_md"}
//
// or an error line. Then, for each request line
//
//	{"texts": ["Some text", "Another sentence"]}
//
// it answers one line with a doc per text, in order:
//
//	{"docs": [{"tokens": [{"id": 0, "head": 1, "sent": 0, "pos": "DET", ...}]}, ...]}
//
// A failed request is answered with {"error": "..."}.
type Bridge struct {
	model string

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	enc     *json.Encoder
	scanner *bufio.Scanner

	logger *slog.Logger
	closed bool
}

var (
	_ Pipeline    = (*Bridge)(nil)
	_ BatchParser = (*Bridge)(nil)
)

type bridgeRequest struct {
	Texts []string `json:"texts"`
}

type bridgeDoc struct {
	Tokens []sent.Token `json:"tokens"`
}

type bridgeResponse struct {
	Ready bool        `json:"ready,omitempty"`
	Model string      `json:"model,omitempty"`
	Docs  []bridgeDoc `json:"docs,omitempty"`
	Error string      `json:"error,omitempty"`
}

// NewBridge starts the bridge process for model and waits until the model
// is loaded.
func NewBridge(ctx context.Context, model string, cfg Config) (*Bridge, error) {
	if cfg.BridgeCommand == "" {
		return nil, errors.New("no bridge command configured")
	}

	logger := cfg.logger()

	args := append(append([]string{}, cfg.BridgeArgs...), model)
	cmd := exec.CommandContext(ctx, cfg.BridgeCommand, args...)
	cmd.Env = append(os.Environ(), cfg.BridgeEnv...)
	cmd.Stderr = cfg.BridgeStderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	logger.Debug("starting bridge", "command", cfg.BridgeCommand, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge %s: %w", cfg.BridgeCommand, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	b := &Bridge{
		model:   model,
		cmd:     cmd,
		stdin:   stdin,
		enc:     json.NewEncoder(stdin),
		scanner: scanner,
		logger:  logger,
	}

	res, err := b.read()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("model %q: %w", model, err)
	}

	if !res.Ready {
		b.Close()
		return nil, fmt.Errorf("model %q: bridge did not report ready", model)
	}

	logger.Info("bridge ready", "model", model)
	return b, nil
}

func (b *Bridge) Name() string {
	return spacyPrefix + b.model
}

func (b *Bridge) Parse(ctx context.Context, text string) (sent.Doc, error) {
	docs, err := b.ParseBatch(ctx, []string{text})
	if err != nil {
		return sent.Doc{}, err
	}

	return docs[0], nil
}

// ParseBatch sends all texts in one request.
func (b *Bridge) ParseBatch(ctx context.Context, texts []string) ([]sent.Doc, error) {
	if b.closed {
		return nil, ErrBridgeClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := b.enc.Encode(bridgeRequest{Texts: texts}); err != nil {
		return nil, fmt.Errorf("failed to write to bridge: %w", err)
	}

	res, err := b.read()
	if err != nil {
		return nil, err
	}

	if len(res.Docs) != len(texts) {
		return nil, fmt.Errorf("bridge returned %d docs for %d texts", len(res.Docs), len(texts))
	}

	docs := make([]sent.Doc, len(texts))
	for i, d := range res.Docs {
		docs[i] = sent.Doc{Text: texts[i], Tokens: d.Tokens}
	}

	b.logger.Debug("bridge batch parsed", "texts", len(texts))
	return docs, nil
}

// read reads one response line. A response with an error message is
// returned as error.
func (b *Bridge) read() (bridgeResponse, error) {
	var res bridgeResponse
	if !b.scanner.Scan() {
		if err := b.scanner.Err(); err != nil {
			return res, fmt.Errorf("failed to read from bridge: %w", err)
		}
		return res, ErrBridgeClosed
	}

	if err := json.Unmarshal(b.scanner.Bytes(), &res); err != nil {
		return res, fmt.Errorf("JSON decoding error: %w", err)
	}

	if res.Error != "" {
		return res, errors.New(res.Error)
	}

	return res, nil
}

// Close ends the bridge process: its stdin is closed and the process is
// waited for.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	if err := b.stdin.Close(); err != nil {
		b.logger.Warn("failed to close bridge stdin", "err", err)
	}

	if err := b.cmd.Wait(); err != nil {
		return fmt.Errorf("bridge exited: %w", err)
	}

	return nil
}
