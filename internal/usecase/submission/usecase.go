package submission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

// ErrInvalidRequest marks input problems the caller can fix.
var ErrInvalidRequest = errors.New("invalid submission")

const maxParallelUploads = 4

var _ input.SubmissionHandler = (*UseCase)(nil)

var documentKinds = []entity.DocumentKind{
	entity.DocumentIDBack,
	entity.DocumentProofOfAddress,
	entity.DocumentProofOfIncome,
}

// UseCase wraps one workflow run with everything around it: document
// resolution before, artifact publishing and temp cleanup after.
type UseCase struct {
	runner  input.WorkflowRunner
	fetcher output.DocumentFetcher
	store   output.ArtifactStore
	logger  output.LoggerPort
}

// New accepts a nil store; artifacts then stay local.
func New(
	runner input.WorkflowRunner,
	fetcher output.DocumentFetcher,
	store output.ArtifactStore,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		runner:  runner,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

func (u *UseCase) Submit(ctx context.Context, req input.SubmissionRequest) (entity.RunOutcome, error) {
	if err := Validate(req); err != nil {
		return entity.RunOutcome{}, err
	}

	docs, temps, err := u.resolve(ctx, req.Documents)
	defer u.cleanup(temps)
	if err != nil {
		return entity.RunOutcome{}, err
	}

	wctx := req.Context
	wctx.Documents = docs

	outcome := u.runner.Run(ctx, wctx, req.Plan)
	u.publish(ctx, &outcome)
	return outcome, nil
}

// Validate checks what a run cannot start without. Documents are only
// needed when the run goes past the simulation.
func Validate(req input.SubmissionRequest) error {
	c := req.Context
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"usuario", c.Username},
		{"senha", c.Password},
		{"cpf", c.TaxID},
		{"matricula", c.Enrollment},
		{"valor_margem", c.Margin},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if !req.Plan.SimulateOnly {
		for _, kind := range documentKinds {
			if strings.TrimSpace(req.Documents[kind]) == "" {
				missing = append(missing, "arquivo_"+string(kind))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}

func (u *UseCase) resolve(ctx context.Context, refs input.DocumentRefs) (entity.DocumentSet, []string, error) {
	var (
		docs  entity.DocumentSet
		temps []string
	)
	for _, kind := range documentKinds {
		ref, ok := refs[kind]
		if !ok || strings.TrimSpace(ref) == "" {
			continue
		}
		local, temporary, err := u.fetcher.Fetch(ctx, ref)
		if err != nil {
			return docs, temps, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, kind, err)
		}
		if temporary {
			temps = append(temps, local)
		}
		docs = docs.With(kind, local)
	}
	return docs, temps, nil
}

func (u *UseCase) cleanup(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			u.logger.Warn("Temporary document not removed", "path", p, "error", err)
		}
	}
}

// publish uploads every artifact and its page snapshot under <run_id>/.
// Failures are logged; the outcome of the run stands either way.
func (u *UseCase) publish(ctx context.Context, outcome *entity.RunOutcome) {
	if u.store == nil || len(outcome.Artifacts) == 0 {
		return
	}
	logger := u.logger.WithField("run_id", outcome.RunID)

	artifacts := withSnapshots(outcome.Artifacts)

	var (
		mu     sync.Mutex
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i := range artifacts {
		a := &artifacts[i]
		g.Go(func() error {
			url, err := u.store.Upload(gctx, a.Path, path.Join(outcome.RunID, a.Name))
			if err != nil {
				logger.Warn("Artifact upload failed", "artifact", a.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			a.URL = url
			return nil
		})
	}
	_ = g.Wait()

	outcome.Artifacts = artifacts
	logger.Info("Artifacts published", "total", len(artifacts), "failed", failed)
}

// withSnapshots appends the sanitized .html dump stored next to a
// screenshot, when the browser managed to write one.
func withSnapshots(in []entity.Artifact) []entity.Artifact {
	out := make([]entity.Artifact, 0, len(in)*2)
	for _, a := range in {
		out = append(out, a)
		snapshot := strings.TrimSuffix(a.Path, filepath.Ext(a.Path)) + ".html"
		if snapshot == a.Path {
			continue
		}
		if info, err := os.Stat(snapshot); err == nil && info.Mode().IsRegular() {
			out = append(out, entity.Artifact{Name: filepath.Base(snapshot), Path: snapshot})
		}
	}
	return out
}
