package input

import (
	"context"

	"onboarding-bot/internal/domain/entity"
)

type WorkflowRunner interface {
	Run(ctx context.Context, wctx entity.WorkflowContext, plan entity.RunPlan) entity.RunOutcome
}

// DocumentRefs are caller-supplied document references: local paths,
// http(s) URLs or do://<key> object references.
type DocumentRefs map[entity.DocumentKind]string

type SubmissionRequest struct {
	Context   entity.WorkflowContext
	Documents DocumentRefs
	Plan      entity.RunPlan
}

type SubmissionHandler interface {
	Submit(ctx context.Context, req SubmissionRequest) (entity.RunOutcome, error)
}
