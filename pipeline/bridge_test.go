package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	sent "github.com/revelaction/terms/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperConfig starts this test binary as bridge process, running
// TestHelperProcess.
func helperConfig() Config {
	return Config{
		BridgeCommand: os.Args[0],
		BridgeArgs:    []string{"-test.run=TestHelperProcess", "--"},
		BridgeEnv:     []string{"GO_WANT_HELPER_PROCESS=1"},
	}
}

// TestHelperProcess is not a real test: it is the fake bridge process. It
// answers each text with one token per word.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	model := os.Args[len(os.Args)-1]
	out := json.NewEncoder(os.Stdout)

	if model == "xx_core_web_sm" {
		out.Encode(bridgeResponse{Error: "Can't find model 'xx_core_web_sm'"})
		return
	}
	out.Encode(bridgeResponse{Ready: true, Model: model})

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var req bridgeRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			out.Encode(bridgeResponse{Error: err.Error()})
			continue
		}

		var res bridgeResponse
		for _, text := range req.Texts {
			if text == "boom" {
				res = bridgeResponse{Error: "parser failure"}
				break
			}

			var doc bridgeDoc
			idx := 0
			for i, w := range strings.Fields(text) {
				idx = strings.Index(text[idx:], w) + idx
				doc.Tokens = append(doc.Tokens, sent.Token{Id: i, Head: 0, Pos: "NOUN", Dep: fmt.Sprintf("dep%d", i), Idx: idx, Text: w, Lemma: strings.ToLower(w), Index: i})
				idx += len(w)
			}
			res.Docs = append(res.Docs, doc)
		}
		out.Encode(res)
	}
}

func TestBridge(t *testing.T) {
	ctx := context.Background()
	p, err := Load(ctx, "spacy:ru_core_news_md", helperConfig())
	require.NoError(t, err)

	assert.Equal(t, "spacy:ru_core_news_md", p.Name())

	bp, ok := p.(BatchParser)
	require.True(t, ok)

	docs, err := bp.ParseBatch(ctx, []string{"Old Man", "Dog"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Old Man", docs[0].Text)
	require.Len(t, docs[0].Tokens, 2)
	assert.Equal(t, "man", docs[0].Tokens[1].Lemma)
	assert.Equal(t, 4, docs[0].Tokens[1].Idx)

	_, err = p.Parse(ctx, "boom")
	assert.EqualError(t, err, "parser failure")

	// the process is still usable after an error response
	doc, err := p.Parse(ctx, "again")
	require.NoError(t, err)
	assert.Len(t, doc.Tokens, 1)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Parse(ctx, "closed")
	assert.ErrorIs(t, err, ErrBridgeClosed)
}

func TestBridgeModelError(t *testing.T) {
	_, err := Load(context.Background(), "xx_core_web_sm", helperConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't find model")
}

func TestBridgeMissingCommand(t *testing.T) {
	cfg := Config{BridgeCommand: "/nonexistent/terms-bridge"}
	_, err := NewBridge(context.Background(), "en_core_web_sm", cfg)
	assert.Error(t, err)
}
