package console

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

var _ output.ProgressPort = (*Progress)(nil)

// Progress prints stage progress for a foreground run.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
}

func NewProgress() *Progress {
	return NewProgressTo(os.Stdout)
}

func NewProgressTo(w io.Writer) *Progress {
	return &Progress{out: w}
}

func (p *Progress) StageStarted(ctx context.Context, stage entity.StageName) {
	p.mu.Lock()
	defer p.mu.Unlock()

	icon, name := stageDisplay(stage)
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(p.out, "\n━━━ %s %s ━━━\n", icon, name)
}

func (p *Progress) StageFinished(ctx context.Context, result entity.StageResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !result.OK {
		red := color.New(color.FgRed)
		red.Fprint(p.out, "❌ Falhou: ")

		dim := color.New(color.Faint)
		dim.Fprintln(p.out, truncate(result.Reason, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(p.out, "✓ Concluído em %s\n", result.Duration.Round(10*time.Millisecond))
	if n := len(result.Report.SkippedOptional); n > 0 {
		dim := color.New(color.Faint)
		dim.Fprintf(p.out, "   %d campo(s) opcional(is) pulado(s)\n", n)
	}
}

func (p *Progress) FieldSkipped(ctx context.Context, stage entity.StageName, o entity.FieldOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o.Mandatory {
		red := color.New(color.FgRed)
		red.Fprintf(p.out, "   ✗ %s (%s)\n", o.Field, o.Status)
		return
	}
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(p.out, "   ⚠ %s (%s)\n", o.Field, o.Status)
}

// Outcome prints the final verdict of a run.
func (p *Progress) Outcome(outcome entity.RunOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if outcome.Succeeded() {
		green := color.New(color.FgGreen, color.Bold)
		green.Fprintf(p.out, "\n✅ Execução %s concluída com sucesso\n", outcome.RunID)
	} else {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(p.out, "\n❌ Execução %s: %s\n", outcome.RunID, outcome.Status)
		if outcome.Reason != "" {
			dim := color.New(color.Faint)
			dim.Fprintf(p.out, "   %s\n", truncate(outcome.Reason, 300))
		}
	}

	for _, a := range outcome.Artifacts {
		location := a.URL
		if location == "" {
			location = a.Path
		}
		color.New(color.Faint).Fprintf(p.out, "   📸 %s\n", location)
	}
}

func stageDisplay(stage entity.StageName) (string, string) {
	displays := map[entity.StageName][2]string{
		entity.StageAuthentication: {"🔐", "Login"},
		entity.StageSimulation:     {"🧮", "Simulação"},
		entity.StageRegistration:   {"📝", "Cadastro"},
		entity.StageDocuments:      {"📎", "Documentos"},
	}

	if display, ok := displays[stage]; ok {
		return display[0], display[1]
	}
	return "🔧", string(stage)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
