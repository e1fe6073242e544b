package input

import (
	"context"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

// StageRun is everything one stage execution sees. Stages keep no state
// between runs.
type StageRun struct {
	Session output.BrowserPort
	Context entity.WorkflowContext
	Plan    entity.RunPlan
	Logger  output.LoggerPort
}

type Stage interface {
	Name() entity.StageName
	Run(ctx context.Context, run StageRun) entity.StageResult
}
