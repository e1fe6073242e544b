package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

const defaultElementTimeout = 10 * time.Second

// clickMethods is the fallback order for every click. The first method that
// does not fail wins.
var clickMethods = []entity.ClickMethod{
	entity.ClickNative,
	entity.ClickScript,
	entity.ClickPointer,
}

// Timing holds the synchronization knobs shared by all stages.
type Timing struct {
	// ElementTimeout bounds each wait for an element condition.
	ElementTimeout time.Duration
	// Settle is the pause after a successful write or click, letting the
	// target UI finish its own dependent updates.
	Settle time.Duration
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (t Timing) withDefaults() Timing {
	if t.ElementTimeout <= 0 {
		t.ElementTimeout = defaultElementTimeout
	}
	if t.Settle < 0 {
		t.Settle = 0
	}
	if t.Sleep == nil {
		t.Sleep = sleep
	}
	return t
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type actionOptions struct {
	settle   int
	diagnose string
	blur     bool
}

type Option func(*actionOptions)

// Settle multiplies the settle pause for actions that trigger slow
// server round trips.
func Settle(factor int) Option {
	return func(o *actionOptions) { o.settle = factor }
}

// Diagnose captures a screenshot under name when the action fails.
func Diagnose(name string) Option {
	return func(o *actionOptions) { o.diagnose = name }
}

// ThenBlur moves focus out of the field after writing so input masks apply.
func ThenBlur() Option {
	return func(o *actionOptions) { o.blur = true }
}

// Interactor is the Field Interactor: it locates a field through its ordered
// strategies, waits for it, and performs one action. It never retries beyond
// the click fallback.
type Interactor struct {
	session output.BrowserPort
	logger  output.LoggerPort
	timing  Timing

	screenshots []string
}

func NewInteractor(session output.BrowserPort, logger output.LoggerPort, timing Timing) *Interactor {
	return &Interactor{
		session: session,
		logger:  logger,
		timing:  timing.withDefaults(),
	}
}

// Screenshots returns the paths captured through this interactor.
func (it *Interactor) Screenshots() []string {
	return append([]string(nil), it.screenshots...)
}

// Fill writes value into a text field. A field already holding value is left
// untouched; anything else is cleared and rewritten. An empty value skips the
// field.
func (it *Interactor) Fill(ctx context.Context, f Field, value string, opts ...Option) entity.FieldOutcome {
	o := options(opts)
	if value == "" {
		return it.skip(f)
	}

	loc, err := it.locate(ctx, f, entity.Present)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	current, err := it.read(ctx, loc)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}
	if current == value {
		it.logger.Debug("Field already holds value", "field", f.Name)
		return it.ok(f)
	}

	err = it.bounded(ctx, func(ctx context.Context) error {
		return it.session.Type(ctx, loc, value)
	})
	if err != nil {
		return it.fail(ctx, f, o, err)
	}
	if o.blur {
		err = it.bounded(ctx, func(ctx context.Context) error {
			return it.session.Blur(ctx, loc)
		})
		if err != nil {
			return it.fail(ctx, f, o, err)
		}
	}

	it.logger.Debug("Field filled", "field", f.Name)
	it.pause(ctx, o)
	return it.ok(f)
}

// Select picks the option whose value matches. A dropdown already on that
// option is left untouched.
func (it *Interactor) Select(ctx context.Context, f Field, value string, opts ...Option) entity.FieldOutcome {
	o := options(opts)
	if value == "" {
		return it.skip(f)
	}

	loc, err := it.locate(ctx, f, entity.Present)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	current, err := it.read(ctx, loc)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}
	if current == value {
		it.logger.Debug("Option already selected", "field", f.Name)
		return it.ok(f)
	}

	err = it.bounded(ctx, func(ctx context.Context) error {
		return it.session.SelectByValue(ctx, loc, value)
	})
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	it.logger.Debug("Option selected", "field", f.Name, "value", value)
	it.pause(ctx, o)
	return it.ok(f)
}

func (it *Interactor) SelectIndex(ctx context.Context, f Field, index int, opts ...Option) entity.FieldOutcome {
	o := options(opts)

	loc, err := it.locate(ctx, f, entity.Present)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	err = it.bounded(ctx, func(ctx context.Context) error {
		return it.session.SelectByIndex(ctx, loc, index)
	})
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	it.logger.Debug("Option selected", "field", f.Name, "index", index)
	it.pause(ctx, o)
	return it.ok(f)
}

// Click waits for the control to become clickable, then tries the native,
// script and pointer clicks in order.
func (it *Interactor) Click(ctx context.Context, f Field, opts ...Option) entity.FieldOutcome {
	o := options(opts)

	loc, err := it.locate(ctx, f, entity.Clickable)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	var errs []error
	for _, method := range clickMethods {
		err := it.bounded(ctx, func(ctx context.Context) error {
			return it.session.Click(ctx, loc, method)
		})
		if err == nil {
			it.logger.Debug("Clicked", "field", f.Name, "method", method)
			it.pause(ctx, o)
			return it.ok(f)
		}
		it.logger.Debug("Click attempt failed", "field", f.Name, "method", method, "error", err)
		errs = append(errs, fmt.Errorf("%s click: %w", method, err))
	}

	return it.fail(ctx, f, o, errors.Join(errs...))
}

// Attach hands local file paths to a file input.
func (it *Interactor) Attach(ctx context.Context, f Field, path string, opts ...Option) entity.FieldOutcome {
	o := options(opts)
	if path == "" {
		return it.skip(f)
	}

	loc, err := it.locate(ctx, f, entity.Present)
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	err = it.bounded(ctx, func(ctx context.Context) error {
		return it.session.SetFiles(ctx, loc, path)
	})
	if err != nil {
		return it.fail(ctx, f, o, err)
	}

	it.pause(ctx, o)
	return it.ok(f)
}

// Read returns the field's current value as the UI reports it.
func (it *Interactor) Read(ctx context.Context, f Field) (string, entity.FieldOutcome) {
	loc, err := it.locate(ctx, f, entity.Present)
	if err != nil {
		return "", it.fail(ctx, f, actionOptions{}, err)
	}
	val, err := it.read(ctx, loc)
	if err != nil {
		return "", it.fail(ctx, f, actionOptions{}, err)
	}
	return val, it.ok(f)
}

// Capture stores a screenshot and remembers its path. Failures are logged only.
func (it *Interactor) Capture(ctx context.Context, name string) {
	path, err := it.session.Screenshot(ctx, name)
	if err != nil {
		it.logger.Warn("Screenshot failed", "name", name, "error", err)
		return
	}
	it.screenshots = append(it.screenshots, path)
}

// Wait pauses for factor settle periods.
func (it *Interactor) Wait(ctx context.Context, factor int) {
	it.pause(ctx, actionOptions{settle: factor})
}

// locate walks the field's strategies in order. Only the first one has to
// reach cond; fallbacks just need to exist, since the script and pointer
// clicks do not depend on the element's own clickability.
func (it *Interactor) locate(ctx context.Context, f Field, cond entity.WaitCondition) (entity.Locator, error) {
	if len(f.Locators) == 0 {
		return entity.Locator{}, fmt.Errorf("%w: field %s has no locator", output.ErrElementNotFound, f.Name)
	}

	var errs []error
	for i, loc := range f.Locators {
		want := cond
		if i > 0 {
			want = entity.Present
		}
		err := it.bounded(ctx, func(ctx context.Context) error {
			return it.session.Wait(ctx, loc, want)
		})
		if err == nil {
			if i > 0 {
				it.logger.Debug("Located through fallback", "field", f.Name, "locator", loc.String())
			}
			return loc, nil
		}
		errs = append(errs, err)
	}
	return entity.Locator{}, errors.Join(errs...)
}

func (it *Interactor) read(ctx context.Context, loc entity.Locator) (string, error) {
	var val string
	err := it.bounded(ctx, func(ctx context.Context) error {
		var err error
		val, err = it.session.Value(ctx, loc)
		return err
	})
	return val, err
}

func (it *Interactor) bounded(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, it.timing.ElementTimeout)
	defer cancel()
	return fn(ctx)
}

func (it *Interactor) pause(ctx context.Context, o actionOptions) {
	factor := o.settle
	if factor <= 0 {
		factor = 1
	}
	_ = it.timing.Sleep(ctx, time.Duration(factor)*it.timing.Settle)
}

func (it *Interactor) ok(f Field) entity.FieldOutcome {
	return entity.FieldOutcome{Field: f.Name, Status: entity.StatusOK, Mandatory: f.Mandatory}
}

func (it *Interactor) skip(f Field) entity.FieldOutcome {
	it.logger.Debug("No value for field", "field", f.Name)
	return entity.FieldOutcome{
		Field:     f.Name,
		Status:    entity.StatusSkipped,
		Mandatory: f.Mandatory,
		Detail:    "no value provided",
	}
}

func (it *Interactor) fail(ctx context.Context, f Field, o actionOptions, err error) entity.FieldOutcome {
	status := classify(err)
	it.logger.Debug("Field interaction failed", "field", f.Name, "status", status, "error", err)
	if o.diagnose != "" {
		it.Capture(ctx, o.diagnose)
	}
	return entity.FieldOutcome{
		Field:     f.Name,
		Status:    status,
		Mandatory: f.Mandatory,
		Detail:    err.Error(),
	}
}

func classify(err error) entity.InteractionStatus {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return entity.StatusTimeout
	case errors.Is(err, output.ErrElementNotFound):
		return entity.StatusNotFound
	default:
		return entity.StatusFailed
	}
}

func options(opts []Option) actionOptions {
	var o actionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
