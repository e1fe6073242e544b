package onboarding

import (
	"context"
	"fmt"
	"strings"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

const defaultLoginMarker = "ICLogin"

var _ input.Stage = (*Authenticator)(nil)

type Authenticator struct {
	entryURL    string
	loginMarker string
	timing      Timing
}

func NewAuthenticator(entryURL, loginMarker string, timing Timing) *Authenticator {
	if loginMarker == "" {
		loginMarker = defaultLoginMarker
	}
	return &Authenticator{
		entryURL:    entryURL,
		loginMarker: loginMarker,
		timing:      timing,
	}
}

func (a *Authenticator) Name() entity.StageName {
	return entity.StageAuthentication
}

// Classify tells a login page apart from an already authenticated one.
func (a *Authenticator) Classify(url string) entity.AuthState {
	if strings.Contains(url, a.loginMarker) {
		return entity.AuthOnLoginPage
	}
	return entity.AuthAlreadyAuthenticated
}

func (a *Authenticator) Run(ctx context.Context, run input.StageRun) entity.StageResult {
	s := newStageRun(a.Name(), run, a.timing)

	if err := run.Session.Navigate(ctx, a.entryURL); err != nil {
		return s.failWith(fmt.Errorf("%w: open entry page: %w", ErrAuthentication, err))
	}

	state := a.Classify(run.Session.CurrentURL())
	s.it.logger.Info("Entry page classified", "state", state)
	if state == entity.AuthAlreadyAuthenticated {
		return s.succeed()
	}

	state, err := a.login(ctx, s, run.Context)
	if err != nil {
		return s.failWith(fmt.Errorf("%w: %s: %w", ErrAuthentication, state, err))
	}

	url := run.Session.CurrentURL()
	if a.Classify(url) == entity.AuthOnLoginPage {
		s.it.logger.Warn("Still on login page after submitting credentials", "url", url)
	} else {
		s.it.logger.Info("Logged in", "url", url)
	}
	return s.succeed()
}

func (a *Authenticator) login(ctx context.Context, s *stageRun, wctx entity.WorkflowContext) (entity.AuthState, error) {
	state := entity.AuthOnLoginPage
	if err := s.require(s.it.Fill(ctx, loginUsername, wctx.Username)); err != nil {
		return state, err
	}
	if err := s.require(s.it.Fill(ctx, loginPassword, wctx.Password)); err != nil {
		return state, err
	}

	state = entity.AuthAuthenticating
	if err := s.require(s.it.Click(ctx, loginSubmit, Settle(3))); err != nil {
		return state, err
	}

	s.it.Capture(ctx, "screenshot_pos_login.png")
	return entity.AuthAuthenticated, nil
}
