package output

import (
	"context"

	"onboarding-bot/internal/domain/entity"
)

type ProgressPort interface {
	StageStarted(ctx context.Context, stage entity.StageName)
	StageFinished(ctx context.Context, result entity.StageResult)
	FieldSkipped(ctx context.Context, stage entity.StageName, outcome entity.FieldOutcome)
}

type NopProgress struct{}

func (NopProgress) StageStarted(context.Context, entity.StageName)                      {}
func (NopProgress) StageFinished(context.Context, entity.StageResult)                   {}
func (NopProgress) FieldSkipped(context.Context, entity.StageName, entity.FieldOutcome) {}
