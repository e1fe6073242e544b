package onboarding

import (
	"context"
	"errors"
	"fmt"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

// stageRun accumulates one stage's field outcomes and artifacts.
type stageRun struct {
	name   entity.StageName
	it     *Interactor
	report entity.FieldReport
}

func newStageRun(name entity.StageName, run input.StageRun, timing Timing) *stageRun {
	logger := run.Logger.WithField("stage", string(name))
	return &stageRun{
		name: name,
		it:   NewInteractor(run.Session, logger, timing),
	}
}

// record adds o to the report and tells whether the stage may continue.
func (s *stageRun) record(o entity.FieldOutcome) bool {
	s.report.Record(o)
	if o.Status != entity.StatusOK && !o.Blocking() {
		s.it.logger.Warn("Field skipped", "field", o.Field, "status", o.Status, "detail", o.Detail)
	}
	return !o.Blocking()
}

// tolerate records o without stopping the stage. Mandatory gaps are left for
// the pre-save validation to reject.
func (s *stageRun) tolerate(o entity.FieldOutcome) {
	s.report.Record(o)
	switch {
	case o.Status == entity.StatusOK:
	case o.Mandatory:
		s.it.logger.Error("Mandatory field not filled", "field", o.Field, "status", o.Status, "detail", o.Detail)
	default:
		s.it.logger.Warn("Field skipped", "field", o.Field, "status", o.Status, "detail", o.Detail)
	}
}

// require records o and turns a blocking outcome into a stage error.
func (s *stageRun) require(o entity.FieldOutcome) error {
	if s.record(o) {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %s", ErrStageFailed, o.Field, o.Status, o.Detail)
}

func (s *stageRun) succeed() entity.StageResult {
	return entity.StageResult{
		Stage:       s.name,
		OK:          true,
		Screenshots: s.it.Screenshots(),
		Report:      s.report,
	}
}

func (s *stageRun) failWith(err error) entity.StageResult {
	s.it.logger.Error("Stage failed", "error", err)
	return entity.StageResult{
		Stage:       s.name,
		OK:          false,
		Reason:      err.Error(),
		Err:         err,
		Screenshots: s.it.Screenshots(),
		Report:      s.report,
	}
}

// canceled reports a run-level cancellation as a stage error.
func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStageFailed, err)
	}
	return nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, ErrAuthentication)
}
