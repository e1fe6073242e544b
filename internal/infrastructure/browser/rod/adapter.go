package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

var (
	_ output.BrowserPort    = (*BrowserAdapter)(nil)
	_ output.BrowserFactory = (*Factory)(nil)
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxShotWidth = 1280
)

type BrowserConfig struct {
	Headless       bool
	NoSandbox      bool
	SlowMotion     time.Duration
	Bin            string
	ViewportWidth  int
	ViewportHeight int
	MaxShotWidth   int
	// ArtifactDir receives screenshots and page snapshots.
	ArtifactDir string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       true,
		NoSandbox:      true,
		ViewportWidth:  1366,
		ViewportHeight: 900,
		MaxShotWidth:   defaultMaxShotWidth,
		ArtifactDir:    "artifacts",
	}
}

// Factory launches one independent browser per run.
type Factory struct {
	cfg BrowserConfig
}

func NewFactory(cfg BrowserConfig) *Factory {
	return &Factory{cfg: cfg}
}

func (f *Factory) Open(ctx context.Context, artifactDir string) (output.BrowserPort, error) {
	cfg := f.cfg
	if artifactDir != "" {
		cfg.ArtifactDir = artifactDir
	}
	return NewBrowserAdapter(ctx, cfg)
}

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      BrowserConfig

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxShotWidth <= 0 {
		cfg.MaxShotWidth = defaultMaxShotWidth
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Set("disable-dev-shm-usage").
		Set("start-maximized").
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url).SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             cfg.ViewportWidth,
			Height:            cfg.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			_ = browser.Close()
			l.Kill()
			l.Cleanup()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		cfg:      cfg,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if !b.IsReady() {
		return output.ErrSessionClosed
	}
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL() string {
	if !b.IsReady() {
		return ""
	}
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// find blocks until the element exists in the DOM.
func (b *BrowserAdapter) find(ctx context.Context, loc entity.Locator) (*rod.Element, error) {
	if !b.IsReady() {
		return nil, output.ErrSessionClosed
	}
	page := b.page.Context(ctx)

	var (
		el  *rod.Element
		err error
	)
	switch loc.Kind {
	case entity.ByID:
		el, err = page.Element(fmt.Sprintf(`[id=%q]`, loc.Value))
	case entity.ByCSS:
		el, err = page.Element(loc.Value)
	case entity.ByPartialID:
		el, err = page.ElementX(fmt.Sprintf(`//*[contains(@id, %q)]`, loc.Value))
	default:
		return nil, fmt.Errorf("unsupported locator kind %q", loc.Kind)
	}
	if err != nil {
		return nil, classify(ctx, err, output.ErrElementNotFound, loc)
	}
	return el, nil
}

func (b *BrowserAdapter) Wait(ctx context.Context, loc entity.Locator, cond entity.WaitCondition) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if cond == entity.Clickable {
		return b.waitClickable(ctx, el, loc)
	}
	return nil
}

func (b *BrowserAdapter) waitClickable(ctx context.Context, el *rod.Element, loc entity.Locator) error {
	el = el.Context(ctx)
	if err := el.WaitVisible(); err != nil {
		return classify(ctx, err, output.ErrNotInteractable, loc)
	}
	if err := el.WaitEnabled(); err != nil {
		return classify(ctx, err, output.ErrNotInteractable, loc)
	}
	return nil
}

func (b *BrowserAdapter) Value(ctx context.Context, loc entity.Locator) (string, error) {
	el, err := b.find(ctx, loc)
	if err != nil {
		return "", err
	}
	val, err := el.Context(ctx).Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", loc, err)
	}
	if val.Nil() {
		return "", nil
	}
	return val.Str(), nil
}

func (b *BrowserAdapter) Type(ctx context.Context, loc entity.Locator, text string) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	el = el.Context(ctx)

	_, err = el.Eval(`() => {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	if err != nil {
		return fmt.Errorf("clear %s: %w", loc, err)
	}
	if text == "" {
		return nil
	}
	if err := el.Input(text); err != nil {
		return classify(ctx, err, output.ErrNotInteractable, loc)
	}
	return nil
}

func (b *BrowserAdapter) Blur(ctx context.Context, loc entity.Locator) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Context(ctx).Blur(); err != nil {
		return fmt.Errorf("blur %s: %w", loc, err)
	}
	return nil
}

func (b *BrowserAdapter) SelectByValue(ctx context.Context, loc entity.Locator, value string) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	option := fmt.Sprintf(`option[value=%q]`, value)
	if err := el.Context(ctx).Select([]string{option}, true, rod.SelectorTypeCSSSector); err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: option %q in %s", output.ErrElementNotFound, value, loc)
		}
		return classify(ctx, err, output.ErrNotInteractable, loc)
	}
	return nil
}

func (b *BrowserAdapter) SelectByIndex(ctx context.Context, loc entity.Locator, index int) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	res, err := el.Context(ctx).Eval(`(i) => {
		if (!this.options || i < 0 || i >= this.options.length) return false;
		this.selectedIndex = i;
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}`, index)
	if err != nil {
		return fmt.Errorf("select index %d in %s: %w", index, loc, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: option index %d in %s", output.ErrElementNotFound, index, loc)
	}
	return nil
}

func (b *BrowserAdapter) SetFiles(ctx context.Context, loc entity.Locator, paths ...string) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Context(ctx).SetFiles(paths); err != nil {
		return fmt.Errorf("set files on %s: %w", loc, err)
	}
	return nil
}

func (b *BrowserAdapter) Click(ctx context.Context, loc entity.Locator, method entity.ClickMethod) error {
	el, err := b.find(ctx, loc)
	if err != nil {
		return err
	}
	el = el.Context(ctx)

	switch method {
	case entity.ClickNative:
		err = el.Click(proto.InputMouseButtonLeft, 1)
	case entity.ClickScript:
		_, err = el.Eval(`() => this.click()`)
	case entity.ClickPointer:
		err = b.pointerClick(ctx, el)
	default:
		return fmt.Errorf("unsupported click method %q", method)
	}
	if err != nil {
		return classify(ctx, err, output.ErrNotInteractable, loc)
	}
	return nil
}

// pointerClick moves the mouse over the element and clicks at that point,
// regardless of what the element reports about its own state.
func (b *BrowserAdapter) pointerClick(ctx context.Context, el *rod.Element) error {
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	shape, err := el.Shape()
	if err != nil {
		return err
	}
	pt := shape.OnePointInside()
	if pt == nil {
		return fmt.Errorf("element has no clickable area")
	}
	mouse := b.page.Context(ctx).Mouse
	if err := mouse.MoveTo(*pt); err != nil {
		return err
	}
	return mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (b *BrowserAdapter) Screenshot(ctx context.Context, name string) (string, error) {
	if !b.IsReady() {
		return "", output.ErrSessionClosed
	}
	if err := os.MkdirAll(b.cfg.ArtifactDir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	page := b.page.Context(ctx)
	imgBytes, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return "", fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > b.cfg.MaxShotWidth {
		img = imaging.Resize(img, b.cfg.MaxShotWidth, 0, imaging.Lanczos)
	}

	path := filepath.Join(b.cfg.ArtifactDir, name)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}

	b.writeSnapshot(page, path)
	return path, nil
}

// writeSnapshot stores a sanitized DOM dump next to a screenshot. It is best
// effort: the screenshot is the primary artifact.
func (b *BrowserAdapter) writeSnapshot(page *rod.Page, shotPath string) {
	raw, err := page.HTML()
	if err != nil {
		return
	}
	clean, err := SanitizeSnapshot(raw, nil)
	if err != nil {
		return
	}
	htmlPath := strings.TrimSuffix(shotPath, filepath.Ext(shotPath)) + ".html"
	_ = os.WriteFile(htmlPath, []byte(clean), 0o644)
}

func (b *BrowserAdapter) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

// classify maps a rod error to a port sentinel. Expired waits are reported
// with the sentinel so that callers can tell a missing element from a broken
// session.
func classify(ctx context.Context, err error, sentinel error, loc entity.Locator) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", sentinel, loc, context.DeadlineExceeded)
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", output.ErrElementNotFound, loc)
	}
	var covered *rod.CoveredError
	var invisible *rod.InvisibleShapeError
	var noPointer *rod.NoPointerEventsError
	if errors.As(err, &covered) || errors.As(err, &invisible) || errors.As(err, &noPointer) {
		return fmt.Errorf("%w: %s: %w", output.ErrNotInteractable, loc, err)
	}
	return fmt.Errorf("%s: %w", loc, err)
}
