package shotdeck

import (
	"fmt"

	"go.uber.org/zap"
)

// ErrorPolicy decides what the Builder does when a slide fails to render.
type ErrorPolicy int

const (
	// AbortOnError stops the build and returns the failure.
	AbortOnError ErrorPolicy = iota
	// SkipOnError leaves the slide out, logs it and continues.
	SkipOnError
)

func (p ErrorPolicy) String() string {
	if p == SkipOnError {
		return "skip"
	}
	return "abort"
}

// ParseErrorPolicy maps "abort" or "skip" to an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "abort", "":
		return AbortOnError, nil
	case "skip":
		return SkipOnError, nil
	}
	return AbortOnError, fmt.Errorf("unknown error policy %q (want abort or skip)", s)
}

// Report summarises the last Build.
type Report struct {
	Rendered int
	Failed   []*SlideError
}

// Builder assembles a Presentation from a PresentationDescriptor. A
// Builder is not safe for concurrent use.
type Builder struct {
	renderer    Renderer
	logger      *zap.Logger
	errorPolicy ErrorPolicy
	report      Report
}

// Option configures a Builder.
type Option func(*Builder)

// WithStyle replaces the default style.
func WithStyle(style StyleConfig) Option {
	return func(b *Builder) { b.renderer.Style = style }
}

// WithLogger sets the logger used for skipped slides.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithErrorPolicy sets how slide failures are handled.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(b *Builder) { b.errorPolicy = p }
}

// WithRowPolicy sets how mismatched table rows are handled.
func WithRowPolicy(p RowShapePolicy) Option {
	return func(b *Builder) { b.renderer.RowPolicy = p }
}

// NewBuilder creates a Builder with the default style, abort-on-error and
// reject-mismatched-rows policies.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		renderer: Renderer{Style: DefaultStyle()},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders every descriptor entry, in order, onto a new slide of a
// fresh presentation. Each slide is rendered detached and appended only
// when rendering succeeds, so a failure never leaves a partial slide.
func (b *Builder) Build(d PresentationDescriptor) (*Presentation, error) {
	b.report = Report{}

	pres := New()
	pres.SetLayout(b.renderer.Style.layout())
	pres.GetDocumentProperties().Title = d.Title

	for i, sd := range d.Slides {
		slide := NewSlide()
		if err := b.renderer.RenderSlide(slide, sd); err != nil {
			se := &SlideError{Index: i, Title: titleOf(sd), Err: err}
			if b.errorPolicy != SkipOnError {
				return nil, se
			}
			b.logger.Warn("skipping slide",
				zap.Int("index", i),
				zap.String("title", se.Title),
				zap.Error(err))
			b.report.Failed = append(b.report.Failed, se)
			continue
		}
		pres.AddSlide(slide)
		b.report.Rendered++
	}

	b.logger.Debug("presentation built",
		zap.String("title", d.Title),
		zap.Int("slides", b.report.Rendered),
		zap.Int("failed", len(b.report.Failed)))
	return pres, nil
}

// titleOf returns the title of d, tolerating nil pointer descriptors.
func titleOf(d SlideDescriptor) string {
	switch v := d.(type) {
	case nil:
		return ""
	case *TableSlide:
		if v == nil {
			return ""
		}
	case *TextSlide:
		if v == nil {
			return ""
		}
	}
	return d.SlideTitle()
}

// Report returns the outcome of the most recent Build.
func (b *Builder) Report() Report {
	return b.report
}
