package output

import (
	"context"
	"errors"

	"onboarding-bot/internal/domain/entity"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrNotInteractable = errors.New("element not interactable")
	ErrSessionClosed   = errors.New("browser session closed")
)

// BrowserPort is the Session Handle: one live browser and its navigation state.
// Every element operation blocks until its condition holds or ctx is done.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string

	Wait(ctx context.Context, loc entity.Locator, cond entity.WaitCondition) error
	Value(ctx context.Context, loc entity.Locator) (string, error)
	Type(ctx context.Context, loc entity.Locator, text string) error
	Blur(ctx context.Context, loc entity.Locator) error
	SelectByValue(ctx context.Context, loc entity.Locator, value string) error
	SelectByIndex(ctx context.Context, loc entity.Locator, index int) error
	SetFiles(ctx context.Context, loc entity.Locator, paths ...string) error
	Click(ctx context.Context, loc entity.Locator, method entity.ClickMethod) error

	// Screenshot writes a diagnostic capture and returns its path.
	Screenshot(ctx context.Context, name string) (string, error)

	Close() error
}

// BrowserFactory opens a fresh session per run; artifactDir scopes the
// session's diagnostic files to that run.
type BrowserFactory interface {
	Open(ctx context.Context, artifactDir string) (BrowserPort, error)
}
