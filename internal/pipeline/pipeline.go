// Package pipeline turns a set of screenshots into one presentation: each
// image is described by a vision model, parsed, and the results merged in
// input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	shotdeck "github.com/VantageDataChat/ShotDeck"
	"github.com/VantageDataChat/ShotDeck/internal/screenshots"
	"github.com/VantageDataChat/ShotDeck/internal/vision"
)

// Stage names the step at which an image failed.
type Stage string

const (
	StageLoad     Stage = "load"
	StageDescribe Stage = "describe"
	StageParse    Stage = "parse"
)

// ImageError reports a failure while processing one screenshot.
type ImageError struct {
	Index int
	Path  string
	Stage Stage
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// SkippedSlide is a slide with an unrecognised type, dropped while parsing
// the description of the image at Path.
type SkippedSlide struct {
	Path string
	shotdeck.SkippedSlide
}

// Options configures a pipeline run.
type Options struct {
	Describer vision.Describer
	// Workers bounds the number of images processed at once. Default 1.
	Workers int
	// MaxImageDim is passed to screenshots.Load.
	MaxImageDim int
	// RequestTimeout bounds each Describe call; zero means no limit.
	RequestTimeout time.Duration
	// OnError decides whether a failed image aborts the run or is skipped.
	OnError shotdeck.ErrorPolicy
	Logger  *zap.Logger
}

// Result is the outcome of Run.
type Result struct {
	RunID      string
	Descriptor shotdeck.PresentationDescriptor
	Skipped    []SkippedSlide
	// Failed lists images left out under SkipOnError, in input order.
	Failed []*ImageError
}

type imageResult struct {
	descriptor shotdeck.PresentationDescriptor
	skipped    []shotdeck.SkippedSlide
	err        *ImageError
}

// Run processes images concurrently and merges their descriptions in input
// order. Under AbortOnError the first failure cancels outstanding work and
// is returned. Cancelling ctx always aborts the run.
func Run(ctx context.Context, images []string, opts Options) (Result, error) {
	if opts.Describer == nil {
		return Result{}, errors.New("pipeline: no describer configured")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Result{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run_id", res.RunID))
	logger.Info("run started", zap.Int("images", len(images)), zap.Int("workers", workers))

	results := make([]imageResult, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := processImage(gctx, i, path, opts, logger)
			if r.err == nil {
				results[i] = r
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if opts.OnError == shotdeck.SkipOnError {
				logger.Warn("skipping screenshot",
					zap.String("path", path),
					zap.String("stage", string(r.err.Stage)),
					zap.Error(r.err.Err))
				results[i] = r
				return nil
			}
			return r.err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{RunID: res.RunID}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{RunID: res.RunID}, err
	}

	for i, r := range results {
		if r.err != nil {
			res.Failed = append(res.Failed, r.err)
			continue
		}
		res.Descriptor.Merge(r.descriptor)
		for _, s := range r.skipped {
			logger.Warn("unknown slide type skipped",
				zap.String("path", images[i]),
				zap.Int("slide", s.Index),
				zap.String("type", s.Type))
			res.Skipped = append(res.Skipped, SkippedSlide{Path: images[i], SkippedSlide: s})
		}
	}

	logger.Info("run finished",
		zap.Int("slides", len(res.Descriptor.Slides)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("skipped_slides", len(res.Skipped)))
	return res, nil
}

func processImage(ctx context.Context, index int, path string, opts Options, logger *zap.Logger) imageResult {
	fail := func(stage Stage, err error) imageResult {
		return imageResult{err: &ImageError{Index: index, Path: path, Stage: stage, Err: err}}
	}

	img, err := screenshots.Load(path, opts.MaxImageDim)
	if err != nil {
		return fail(StageLoad, err)
	}

	reqCtx := ctx
	if opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}

	logger.Info("describing screenshot", zap.String("path", path), zap.Int("width", img.Width), zap.Int("height", img.Height))
	start := time.Now()
	text, err := opts.Describer.Describe(reqCtx, img)
	if err != nil {
		return fail(StageDescribe, err)
	}
	logger.Debug("vision response",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(text)))

	parsed, err := shotdeck.Parse(text)
	if err != nil {
		return fail(StageParse, err)
	}
	return imageResult{descriptor: parsed.Descriptor, skipped: parsed.Skipped}
}

// BuildOptions configures BuildDeck.
type BuildOptions struct {
	Options
	// Output is the .pptx path to write.
	Output string
	// Builder options, e.g. shotdeck.WithRowPolicy.
	BuilderOptions []shotdeck.Option
}

// BuildDeck runs the pipeline, assembles the merged descriptor and saves the
// deck to opts.Output. The slide error policy follows opts.OnError.
func BuildDeck(ctx context.Context, images []string, opts BuildOptions) (Result, shotdeck.Report, error) {
	res, err := Run(ctx, images, opts.Options)
	if err != nil {
		return res, shotdeck.Report{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", res.RunID))

	bopts := append([]shotdeck.Option{
		shotdeck.WithLogger(logger),
		shotdeck.WithErrorPolicy(opts.OnError),
	}, opts.BuilderOptions...)
	b := shotdeck.NewBuilder(bopts...)
	pres, err := b.Build(res.Descriptor)
	if err != nil {
		return res, b.Report(), err
	}
	if err := pres.Save(opts.Output); err != nil {
		return res, b.Report(), fmt.Errorf("save presentation: %w", err)
	}
	logger.Info("presentation written",
		zap.String("path", opts.Output),
		zap.Int("slides", pres.GetSlideCount()))
	return res, b.Report(), nil
}
