package onboarding

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/application/service"
	"onboarding-bot/internal/domain/entity"
)

var _ input.WorkflowRunner = (*UseCase)(nil)

type Settings struct {
	EntryURL     string
	LoginMarker  string
	Timing       Timing
	Simulation   SimulationDefaults
	Registration RegistrationDefaults
}

// NewPipeline registers the four stages in execution order.
func NewPipeline(addresses output.AddressLookupPort, s Settings) *service.StageRegistry {
	return service.NewStageRegistry(
		NewAuthenticator(s.EntryURL, s.LoginMarker, s.Timing),
		NewSimulationStage(s.EntryURL, s.Simulation, s.Timing),
		NewRegistrationStage(addresses, s.Registration, s.Timing),
		NewDocumentStage(s.Timing),
	)
}

// UseCase is the Orchestrator. Each run gets its own browser session, which is
// closed on every exit path.
type UseCase struct {
	browsers    output.BrowserFactory
	stages      *service.StageRegistry
	progress    output.ProgressPort
	logger      output.LoggerPort
	artifactDir string

	newRunID func() string
}

func New(
	browsers output.BrowserFactory,
	stages *service.StageRegistry,
	progress output.ProgressPort,
	logger output.LoggerPort,
	artifactDir string,
) *UseCase {
	if progress == nil {
		progress = output.NopProgress{}
	}
	return &UseCase{
		browsers:    browsers,
		stages:      stages,
		progress:    progress,
		logger:      logger,
		artifactDir: artifactDir,
		newRunID:    uuid.NewString,
	}
}

func (uc *UseCase) Run(ctx context.Context, wctx entity.WorkflowContext, plan entity.RunPlan) entity.RunOutcome {
	outcome := entity.RunOutcome{RunID: uc.newRunID()}
	logger := uc.logger.WithField("run_id", outcome.RunID)
	logger.Info("Workflow started", "simulate_only", plan.SimulateOnly)

	session, err := uc.browsers.Open(ctx, filepath.Join(uc.artifactDir, outcome.RunID))
	if err != nil {
		logger.Error("Browser session could not be opened", "error", err)
		outcome.Status = entity.RunStageFailed
		outcome.Reason = fmt.Sprintf("open browser session: %v", err)
		return outcome
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Browser session close failed", "error", err)
		}
	}()

	run := input.StageRun{
		Session: session,
		Context: wctx,
		Plan:    plan,
		Logger:  logger,
	}

	for _, stage := range uc.stages.All() {
		result := uc.runStage(ctx, stage, run)

		outcome.Screenshots = append(outcome.Screenshots, result.Screenshots...)
		outcome.Report.Merge(result.Report)

		if !result.OK {
			outcome.Status = entity.RunStageFailed
			if isAuthFailure(result.Err) {
				outcome.Status = entity.RunAuthenticationFailed
			}
			outcome.FailedStage = result.Stage
			outcome.Reason = result.Reason
			outcome.Artifacts = artifacts(outcome.Screenshots)
			logger.Error("Workflow aborted", "stage", result.Stage, "reason", result.Reason)
			return outcome
		}

		if plan.SimulateOnly && stage.Name() == entity.StageSimulation {
			break
		}
	}

	outcome.Status = entity.RunSucceeded
	outcome.Artifacts = artifacts(outcome.Screenshots)
	logger.Info("Workflow finished",
		"skipped_optional", len(outcome.Report.SkippedOptional),
		"screenshots", len(outcome.Screenshots),
	)
	return outcome
}

func (uc *UseCase) runStage(ctx context.Context, stage input.Stage, run input.StageRun) entity.StageResult {
	uc.progress.StageStarted(ctx, stage.Name())
	start := time.Now()

	result := stage.Run(ctx, run)
	result.Stage = stage.Name()
	result.Duration = time.Since(start)

	for _, o := range result.Report.FailedMandatory {
		uc.progress.FieldSkipped(ctx, result.Stage, o)
	}
	for _, o := range result.Report.SkippedOptional {
		uc.progress.FieldSkipped(ctx, result.Stage, o)
	}
	uc.progress.StageFinished(ctx, result)
	return result
}

func artifacts(paths []string) []entity.Artifact {
	if len(paths) == 0 {
		return nil
	}
	result := make([]entity.Artifact, 0, len(paths))
	for _, p := range paths {
		result = append(result, entity.Artifact{Name: filepath.Base(p), Path: p})
	}
	return result
}
