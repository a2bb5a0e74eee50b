package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shotdeck "github.com/VantageDataChat/ShotDeck"
	"github.com/VantageDataChat/ShotDeck/internal/config"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	base := []string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--log", "error"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRenderInspectPreview(t *testing.T) {
	dir := t.TempDir()
	first := writeJSON(t, dir, "1.json", `{"presentation":{"title":"Week 3","slides":[
		{"type":"table","title":"Q1","headers":["A","B"],"rows":[["1","2"],["3","4"]]}
	]}}`)
	second := writeJSON(t, dir, "2.json", `{"presentation":{"title":"ignored","slides":[
		{"type":"text","title":"Answer","content":["x = 4","check: 2 + 2"]},
		{"type":"chart","title":"nope"}
	]}}`)
	deck := filepath.Join(dir, "out", "deck.pptx")

	stdout, _, err := run(t, "render", first, second, "-o", deck)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(2 slides)")

	pres, err := shotdeck.Open(deck)
	require.NoError(t, err)
	assert.Equal(t, "Week 3", pres.GetDocumentProperties().Title)

	stdout, _, err = run(t, "inspect", deck)
	require.NoError(t, err)
	assert.Contains(t, stdout, "title:  Week 3")
	assert.Contains(t, stdout, "slides: 2")
	assert.Contains(t, stdout, "table 3x2")
	assert.Contains(t, stdout, "text 2 lines")

	previews := filepath.Join(dir, "png")
	stdout, _, err = run(t, "preview", deck, "--dir", previews, "--width", "320")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	_, err = os.Stat(filepath.Join(previews, "slide_2.png"))
	assert.NoError(t, err)
}

func TestRenderRowPolicyFlag(t *testing.T) {
	dir := t.TempDir()
	ragged := writeJSON(t, dir, "r.json", `{"presentation":{"slides":[
		{"type":"table","title":"t","headers":["a","b"],"rows":[["1"]]}
	]}}`)
	deck := filepath.Join(dir, "deck.pptx")

	_, _, err := run(t, "render", ragged, "-o", deck)
	assert.ErrorIs(t, err, shotdeck.ErrRowShapeMismatch)

	_, _, err = run(t, "render", ragged, "-o", deck, "--row-policy", "normalize")
	require.NoError(t, err)

	_, stderr, err := run(t, "render", ragged, "-o", deck, "--on-error", "skip")
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipped slide 0")
}

func TestRenderRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	bad := writeJSON(t, dir, "bad.json", `Here you go!`)
	_, _, err := run(t, "render", bad, "-o", filepath.Join(dir, "deck.pptx"))
	var pe *shotdeck.ParseError
	assert.ErrorAs(t, err, &pe)

	_, _, err = run(t, "render", bad, "--on-error", "retry")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestBuildNeedsScreenshots(t *testing.T) {
	_, _, err := run(t, "build", t.TempDir())
	assert.ErrorContains(t, err, "no screenshots")
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
}

func TestBuildProviderFlagUsesProviderKey(t *testing.T) {
	const answer = `{"presentation":{"title":"T","slides":[{"type":"text","title":"Answer","content":["x = 4"]}]}}`
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"finishReason": "STOP",
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": answer}},
				},
			}},
		})
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("SHOTDECK_MODEL", "")
	t.Setenv("SHOTDECK_BASE_URL", srv.URL)

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1.png"))
	deck := filepath.Join(dir, "deck.pptx")

	stdout, _, err := run(t, "build", dir, "--provider", "gemini", "-o", deck)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(1 slides from 1 screenshots)")
	assert.Equal(t, "gm-key", key)
	assert.Contains(t, path, "models/gemini-2.5-flash:generateContent")

	pres, err := shotdeck.Open(deck)
	require.NoError(t, err)
	assert.Equal(t, 1, pres.GetSlideCount())
}

func TestVisionOptionsFollowProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := config.DefaultConfig()
	cfg.Vision.APIKey = "file-key"
	opts := visionOptions(cfg)
	assert.Equal(t, "oa-key", opts.APIKey)
	assert.Empty(t, opts.Model)

	cfg.Vision.Provider = config.ProviderGemini
	opts = visionOptions(cfg)
	assert.Equal(t, config.ProviderGemini, opts.Provider)
	assert.Equal(t, "file-key", opts.APIKey)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "shotdeck "+shotdeck.Version)
}
