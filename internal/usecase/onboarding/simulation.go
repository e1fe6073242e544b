package onboarding

import (
	"context"
	"fmt"
	"strings"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

const (
	defaultProductType = "1"
	defaultEmployer    = "51"

	simulationScreenshot = "screenshot_simulacao.png"
)

var _ input.Stage = (*SimulationStage)(nil)

type SimulationDefaults struct {
	ProductType string
	Employer    string
}

// SimulationStage drives the simulation screen up to the hand-off into the
// registration form.
type SimulationStage struct {
	entryURL string
	defaults SimulationDefaults
	timing   Timing
}

func NewSimulationStage(entryURL string, defaults SimulationDefaults, timing Timing) *SimulationStage {
	if defaults.ProductType == "" {
		defaults.ProductType = defaultProductType
	}
	if defaults.Employer == "" {
		defaults.Employer = defaultEmployer
	}
	return &SimulationStage{
		entryURL: entryURL,
		defaults: defaults,
		timing:   timing,
	}
}

func (st *SimulationStage) Name() entity.StageName {
	return entity.StageSimulation
}

func (st *SimulationStage) Run(ctx context.Context, run input.StageRun) entity.StageResult {
	s := newStageRun(st.Name(), run, st.timing)

	err := st.open(ctx, s, run)
	if err == nil {
		err = st.simulate(ctx, s, run.Context)
	}
	if err == nil && !run.Plan.SimulateOnly {
		err = st.startPipeline(ctx, s)
	}

	s.it.Capture(ctx, simulationScreenshot)
	if err != nil {
		return s.failWith(err)
	}
	return s.succeed()
}

// open reloads the simulation page after login and checks that the session
// actually landed there.
func (st *SimulationStage) open(ctx context.Context, s *stageRun, run input.StageRun) error {
	if err := run.Session.Navigate(ctx, st.entryURL); err != nil {
		return fmt.Errorf("%w: open simulation page: %w", ErrStageFailed, err)
	}
	if url := run.Session.CurrentURL(); !strings.HasPrefix(url, st.entryURL) {
		return fmt.Errorf("%w: simulation page not reached, current url %s", ErrStageFailed, url)
	}
	s.it.logger.Info("Simulation page reached")
	return nil
}

func (st *SimulationStage) simulate(ctx context.Context, s *stageRun, wctx entity.WorkflowContext) error {
	steps := []func() entity.FieldOutcome{
		// index 0 is the "-" placeholder
		func() entity.FieldOutcome { return s.it.SelectIndex(ctx, simOutlet, 1) },
		func() entity.FieldOutcome {
			return s.it.Select(ctx, simProductType, valueOr(wctx.ProductType, st.defaults.ProductType))
		},
		// name and birth date auto-populate from the tax id
		func() entity.FieldOutcome { return s.it.Fill(ctx, simTaxID, wctx.TaxID, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Fill(ctx, simEnrollment, wctx.Enrollment) },
		func() entity.FieldOutcome {
			return s.it.Select(ctx, simEmployer, valueOr(wctx.Employer, st.defaults.Employer))
		},
		func() entity.FieldOutcome { return s.it.Click(ctx, simCalculateMargin, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Fill(ctx, simMargin, wctx.Margin) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simMarginOK, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simShowTables, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simTableDetail, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simSimulateWithdrawal, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simRequestProposal, Settle(2)) },
		func() entity.FieldOutcome { return s.it.Click(ctx, simConfirmYes, Settle(3)) },
	}

	for _, step := range steps {
		if err := canceled(ctx); err != nil {
			return err
		}
		if err := s.require(step()); err != nil {
			return err
		}
	}
	return nil
}

func (st *SimulationStage) startPipeline(ctx context.Context, s *stageRun) error {
	return s.require(s.it.Click(ctx, simStartPipeline, Settle(3), Diagnose("erro_botao_ok.png")))
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
