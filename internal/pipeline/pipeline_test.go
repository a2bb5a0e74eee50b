package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	shotdeck "github.com/VantageDataChat/ShotDeck"
	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
	"github.com/VantageDataChat/ShotDeck/internal/vision"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeShots creates n tiny PNG files named shot_00.png, shot_01.png, ...
func writeShots(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("shot_%02d.png", i))
		require.NoError(t, os.WriteFile(paths[i], buf.Bytes(), 0644))
	}
	return paths
}

func deckFor(title string) string {
	return fmt.Sprintf(`{"presentation":{"title":%q,"slides":[{"type":"text","title":%q,"content":["x"]}]}}`, "deck "+title, title)
}

// byName answers with a one-slide deck titled after the file name.
func byName() vision.Describer {
	return vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		return deckFor(filepath.Base(img.Path)), nil
	})
}

func titles(d shotdeck.PresentationDescriptor) []string {
	out := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		out[i] = s.SlideTitle()
	}
	return out
}

func TestRunPreservesInputOrder(t *testing.T) {
	paths := writeShots(t, 8)
	// Earlier images answer later.
	slowFirst := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		var idx int
		fmt.Sscanf(filepath.Base(img.Path), "shot_%02d.png", &idx)
		time.Sleep(time.Duration(8-idx) * 5 * time.Millisecond)
		return deckFor(filepath.Base(img.Path)), nil
	})

	res, err := Run(context.Background(), paths, Options{Describer: slowFirst, Workers: 4})
	require.NoError(t, err)

	want := make([]string, len(paths))
	for i, p := range paths {
		want[i] = filepath.Base(p)
	}
	assert.Equal(t, want, titles(res.Descriptor))
	assert.Equal(t, "deck shot_00.png", res.Descriptor.Title)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Failed)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	paths := writeShots(t, 12)
	var active, peak int32
	d := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return deckFor("x"), nil
	})

	_, err := Run(context.Background(), paths, Options{Describer: d, Workers: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestRunAbortOnParseError(t *testing.T) {
	paths := writeShots(t, 3)
	d := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		if strings.HasSuffix(img.Path, "shot_01.png") {
			return "Sure! Here is your slide.", nil
		}
		return deckFor("ok"), nil
	})

	_, err := Run(context.Background(), paths, Options{Describer: d, Workers: 1})
	require.Error(t, err)

	var ie *ImageError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, StageParse, ie.Stage)
	assert.Equal(t, paths[1], ie.Path)
	assert.Equal(t, 1, ie.Index)
	var pe *shotdeck.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRunSkipOnError(t *testing.T) {
	paths := writeShots(t, 4)
	// A file that is not an image fails at load time.
	require.NoError(t, os.WriteFile(paths[2], []byte("not a png"), 0644))

	boom := errors.New("rate limited")
	d := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		if strings.HasSuffix(img.Path, "shot_03.png") {
			return "", boom
		}
		return deckFor(filepath.Base(img.Path)), nil
	})

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := Run(context.Background(), paths, Options{
		Describer: d,
		Workers:   2,
		OnError:   shotdeck.SkipOnError,
		Logger:    zap.New(core),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"shot_00.png", "shot_01.png"}, titles(res.Descriptor))
	require.Len(t, res.Failed, 2)
	assert.Equal(t, StageLoad, res.Failed[0].Stage)
	assert.Equal(t, StageDescribe, res.Failed[1].Stage)
	assert.ErrorIs(t, res.Failed[1], boom)

	entries := logs.FilterMessage("skipping screenshot").All()
	require.Len(t, entries, 2)
	assert.Equal(t, res.RunID, entries[0].ContextMap()["run_id"])
}

func TestRunRequestTimeout(t *testing.T) {
	paths := writeShots(t, 1)
	blocked := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	res, err := Run(context.Background(), paths, Options{
		Describer:      blocked,
		RequestTimeout: 20 * time.Millisecond,
		OnError:        shotdeck.SkipOnError,
	})
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0], context.DeadlineExceeded)
}

func TestRunCancelledContext(t *testing.T) {
	paths := writeShots(t, 6)
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	d := vision.DescriberFunc(func(c context.Context, img *screenshots.Image) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			cancel()
		}
		<-c.Done()
		return "", c.Err()
	})

	_, err := Run(ctx, paths, Options{Describer: d, Workers: 2, OnError: shotdeck.SkipOnError})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCollectsUnknownTypes(t *testing.T) {
	paths := writeShots(t, 2)
	d := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		return `{"presentation":{"title":"","slides":[
			{"type":"chart","title":"c"},
			{"type":"text","title":"t","content":[]}
		]}}`, nil
	})

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := Run(context.Background(), paths, Options{Describer: d, Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Len(t, res.Descriptor.Slides, 2)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, paths[0], res.Skipped[0].Path)
	assert.Equal(t, "chart", res.Skipped[0].Type)
	assert.Equal(t, 0, res.Skipped[0].Index)
	assert.Equal(t, 2, logs.FilterMessage("unknown slide type skipped").Len())
}

func TestRunRequiresDescriber(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestRunNoImages(t *testing.T) {
	res, err := Run(context.Background(), nil, Options{Describer: byName()})
	require.NoError(t, err)
	assert.Empty(t, res.Descriptor.Slides)
}

func TestBuildDeck(t *testing.T) {
	paths := writeShots(t, 3)
	out := filepath.Join(t.TempDir(), "deck.pptx")

	res, report, err := BuildDeck(context.Background(), paths, BuildOptions{
		Options: Options{Describer: byName(), Workers: 2},
		Output:  out,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Rendered)
	assert.Len(t, res.Descriptor.Slides, 3)

	pres, err := shotdeck.Open(out)
	require.NoError(t, err)
	require.Equal(t, 3, pres.GetSlideCount())
	assert.Equal(t, "shot_02.png", pres.GetAllSlides()[2].Title().Text())
	assert.Equal(t, "deck shot_00.png", pres.GetDocumentProperties().Title)
}

func TestBuildDeckSlideFailureUnderAbort(t *testing.T) {
	paths := writeShots(t, 1)
	d := vision.DescriberFunc(func(ctx context.Context, img *screenshots.Image) (string, error) {
		return `{"presentation":{"slides":[{"type":"table","title":"bad","headers":[],"rows":[]}]}}`, nil
	})
	out := filepath.Join(t.TempDir(), "deck.pptx")

	_, _, err := BuildDeck(context.Background(), paths, BuildOptions{Options: Options{Describer: d}, Output: out})
	assert.ErrorIs(t, err, shotdeck.ErrEmptyHeaders)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no deck is written when a slide fails")
}
