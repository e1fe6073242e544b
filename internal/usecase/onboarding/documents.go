package onboarding

import (
	"context"
	"fmt"
	"path/filepath"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

var _ input.Stage = (*DocumentStage)(nil)

// DocumentStage attaches the three documents to the saved record and
// approves it. It only makes sense after a successful save.
type DocumentStage struct {
	timing Timing
}

func NewDocumentStage(timing Timing) *DocumentStage {
	return &DocumentStage{timing: timing}
}

func (st *DocumentStage) Name() entity.StageName {
	return entity.StageDocuments
}

func (st *DocumentStage) Run(ctx context.Context, run input.StageRun) entity.StageResult {
	s := newStageRun(st.Name(), run, st.timing)

	for _, doc := range documentTypes {
		if err := canceled(ctx); err != nil {
			return s.failWith(err)
		}
		path := run.Context.Documents.Path(doc.Kind)
		if o, ok := st.attach(ctx, s, doc.Value, path); !ok {
			o.Field = string(doc.Kind)
			s.record(o)
			s.it.logger.Warn("Document not attached", "document", doc.Kind, "status", o.Status)
			continue
		}
		s.it.logger.Info("Document attached", "document", doc.Kind)
	}

	approve := s.it.Click(ctx, docApprove, Settle(2), Diagnose("erro_botao_aprovar.png"))
	if err := s.require(approve); err != nil {
		return s.failWith(err)
	}
	s.it.logger.Info("Proposal approved")
	return s.succeed()
}

// attach runs one select-type, choose-file, send cycle. The outcome returned
// is the first step that did not succeed.
func (st *DocumentStage) attach(ctx context.Context, s *stageRun, typeValue, path string) (entity.FieldOutcome, bool) {
	if path == "" {
		return entity.FieldOutcome{Status: entity.StatusSkipped, Detail: "no file provided"}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return entity.FieldOutcome{Status: entity.StatusFailed, Detail: fmt.Sprintf("resolve path: %v", err)}, false
	}

	steps := []func() entity.FieldOutcome{
		func() entity.FieldOutcome { return s.it.Select(ctx, docType, typeValue) },
		func() entity.FieldOutcome { return s.it.Attach(ctx, docFile, abs) },
		func() entity.FieldOutcome { return s.it.Click(ctx, docSend, Settle(2)) },
	}
	for _, step := range steps {
		if o := step(); o.Status != entity.StatusOK {
			return o, false
		}
	}
	return entity.FieldOutcome{Status: entity.StatusOK}, true
}
