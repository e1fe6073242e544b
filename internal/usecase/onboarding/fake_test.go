package onboarding

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

const (
	testEntryURL = "https://bank.test/AppCartao/Pages/Simulacao/ICSimulacao"
	testLoginURL = "https://bank.test/AppCartao/Pages/ICLogin.aspx?ReturnUrl=%2fAppCartao"
)

// fakeBrowser is an in-memory target UI. Every element exists unless listed in
// missing; values written through it can be read back.
type fakeBrowser struct {
	mu sync.Mutex

	url        string
	onNavigate func(url string) string

	values      map[string]string
	options     map[string][]string
	missing     map[string]bool
	unclickable map[string]bool
	clickErrs   map[string]map[entity.ClickMethod]error
	onClick     map[string]func(b *fakeBrowser)

	calls    []string
	closed   int
	closeErr error
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		values:      map[string]string{},
		options:     map[string][]string{},
		missing:     map[string]bool{},
		unclickable: map[string]bool{},
		clickErrs:   map[string]map[entity.ClickMethod]error{},
		onClick:     map[string]func(b *fakeBrowser){},
	}
}

var _ output.BrowserPort = (*fakeBrowser)(nil)

func (b *fakeBrowser) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBrowser) lookup(loc entity.Locator) error {
	if b.missing[loc.Value] {
		return fmt.Errorf("%w: %s: %w", output.ErrElementNotFound, loc, context.DeadlineExceeded)
	}
	return nil
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("navigate %s", url)
	if b.onNavigate != nil {
		url = b.onNavigate(url)
	}
	b.url = url
	return nil
}

func (b *fakeBrowser) CurrentURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url
}

func (b *fakeBrowser) Wait(_ context.Context, loc entity.Locator, cond entity.WaitCondition) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return err
	}
	if cond == entity.Clickable && b.unclickable[loc.Value] {
		return fmt.Errorf("%w: %s: %w", output.ErrNotInteractable, loc, context.DeadlineExceeded)
	}
	return nil
}

func (b *fakeBrowser) Value(_ context.Context, loc entity.Locator) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return "", err
	}
	return b.values[loc.Value], nil
}

func (b *fakeBrowser) Type(_ context.Context, loc entity.Locator, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return err
	}
	b.record("type %s=%s", loc.Value, text)
	b.values[loc.Value] = text
	return nil
}

func (b *fakeBrowser) Blur(_ context.Context, loc entity.Locator) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("blur %s", loc.Value)
	return nil
}

func (b *fakeBrowser) SelectByValue(_ context.Context, loc entity.Locator, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return err
	}
	b.record("select %s=%s", loc.Value, value)
	b.values[loc.Value] = value
	return nil
}

func (b *fakeBrowser) SelectByIndex(_ context.Context, loc entity.Locator, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return err
	}
	b.record("select %s#%d", loc.Value, index)
	value := strconv.Itoa(index)
	if opts := b.options[loc.Value]; index < len(opts) {
		value = opts[index]
	}
	b.values[loc.Value] = value
	return nil
}

func (b *fakeBrowser) SetFiles(_ context.Context, loc entity.Locator, paths ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.lookup(loc); err != nil {
		return err
	}
	b.record("files %s=%s", loc.Value, strings.Join(paths, ","))
	return nil
}

func (b *fakeBrowser) Click(_ context.Context, loc entity.Locator, method entity.ClickMethod) error {
	b.mu.Lock()
	if err := b.lookup(loc); err != nil {
		b.mu.Unlock()
		return err
	}
	b.record("click %s %s", loc.Value, method)
	if err := b.clickErrs[loc.Value][method]; err != nil {
		b.mu.Unlock()
		return err
	}
	hook := b.onClick[loc.Value]
	b.mu.Unlock()

	if hook != nil {
		hook(b)
	}
	return nil
}

func (b *fakeBrowser) Screenshot(_ context.Context, name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("screenshot %s", name)
	return filepath.Join("artifacts", name), nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return b.closeErr
}

// failClicks makes every click method fail on id.
func (b *fakeBrowser) failClicks(id string) {
	b.clickErrs[id] = map[entity.ClickMethod]error{
		entity.ClickNative:  errors.New("native click intercepted"),
		entity.ClickScript:  errors.New("script click failed"),
		entity.ClickPointer: errors.New("pointer click failed"),
	}
}

func (b *fakeBrowser) history() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// count returns how many calls start with prefix.
func (b *fakeBrowser) count(prefix string) int {
	n := 0
	for _, c := range b.history() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (b *fakeBrowser) value(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[id]
}

type fakeFactory struct {
	browser *fakeBrowser
	err     error
	dirs    []string
}

func (f *fakeFactory) Open(_ context.Context, artifactDir string) (output.BrowserPort, error) {
	f.dirs = append(f.dirs, artifactDir)
	if f.err != nil {
		return nil, f.err
	}
	return f.browser, nil
}

type fakeEnricher struct {
	result *entity.AddressLookupResult
	calls  []string
}

func (f *fakeEnricher) Lookup(_ context.Context, postalCode string) *entity.AddressLookupResult {
	f.calls = append(f.calls, postalCode)
	return f.result
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                      {}
func (nopLogger) Info(string, ...any)                       {}
func (nopLogger) Warn(string, ...any)                       {}
func (nopLogger) Error(string, ...any)                      {}
func (l nopLogger) WithField(string, any) output.LoggerPort { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort {
	return l
}
func (nopLogger) Close() error { return nil }

// recordingLogger keeps "level msg field" lines, field being the value of the
// "field" key when present.
type recordingLogger struct {
	lines *[]string
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{lines: &[]string{}}
}

func (l recordingLogger) log(level, msg string, kv []any) {
	line := level + " " + msg
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == "field" {
			line += fmt.Sprintf(" %v", kv[i+1])
		}
	}
	*l.lines = append(*l.lines, line)
}

func (l recordingLogger) Debug(msg string, kv ...any)             { l.log("debug", msg, kv) }
func (l recordingLogger) Info(msg string, kv ...any)              { l.log("info", msg, kv) }
func (l recordingLogger) Warn(msg string, kv ...any)              { l.log("warn", msg, kv) }
func (l recordingLogger) Error(msg string, kv ...any)             { l.log("error", msg, kv) }
func (l recordingLogger) WithField(string, any) output.LoggerPort { return l }
func (l recordingLogger) WithFields(map[string]any) output.LoggerPort {
	return l
}
func (recordingLogger) Close() error { return nil }

func (l recordingLogger) entries(prefix string) []string {
	var out []string
	for _, line := range *l.lines {
		if strings.HasPrefix(line, prefix) {
			out = append(out, line)
		}
	}
	return out
}

type recordingProgress struct {
	started  []entity.StageName
	finished []entity.StageResult
	skipped  []entity.FieldOutcome
}

func (p *recordingProgress) StageStarted(_ context.Context, stage entity.StageName) {
	p.started = append(p.started, stage)
}

func (p *recordingProgress) StageFinished(_ context.Context, result entity.StageResult) {
	p.finished = append(p.finished, result)
}

func (p *recordingProgress) FieldSkipped(_ context.Context, _ entity.StageName, o entity.FieldOutcome) {
	p.skipped = append(p.skipped, o)
}

// sleepRecorder replaces real settle pauses and sums them.
type sleepRecorder struct {
	total time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.total += d
	return nil
}

func testTiming(s *sleepRecorder) Timing {
	return Timing{
		ElementTimeout: time.Second,
		Settle:         10 * time.Millisecond,
		Sleep:          s.sleep,
	}
}

func stageRunFor(b *fakeBrowser, wctx entity.WorkflowContext) input.StageRun {
	return input.StageRun{
		Session: b,
		Context: wctx,
		Logger:  nopLogger{},
	}
}

// completeContext is a fully populated applicant.
func completeContext() entity.WorkflowContext {
	return entity.WorkflowContext{
		Username: "operador",
		Password: "s3cret",

		TaxID:       "12345678900",
		Enrollment:  "987654",
		Employer:    "51",
		Margin:      "500.00",
		ProductType: "1",

		RG:          "123456",
		RGIssueDate: "01/02/2010",
		IssuingBody: "SSP",
		IssuingUF:   "RR",

		Birthplace:    "Boa Vista",
		BirthUF:       "RR",
		Sex:           "MASCULINO",
		MaritalStatus: "1",
		MotherName:    "Maria da Silva",

		PostalCode: "69301-000",
		Number:     "100",
		Complement: "Casa",

		AdmissionDate:         "15/06/2015",
		Profession:            "12",
		ProfessionDescription: "Professor",
		Role:                  "Docente",
		Income:                "3500,00",

		AccountType: "1",
		Bank:        "001",
		Agency:      "1234",
		Account:     "56789",
		CheckDigit:  "0",

		AreaCode: "95",
		Phone:    "991234567",
		Email:    "cliente@example.com",

		Documents: entity.DocumentSet{
			IDBack:         "/tmp/docs/rg_verso.jpg",
			ProofOfAddress: "/tmp/docs/comprovante_endereco.pdf",
			ProofOfIncome:  "/tmp/docs/comprovante_renda.pdf",
		},
	}
}
