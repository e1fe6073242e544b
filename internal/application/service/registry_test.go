package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

type stubStage struct {
	name entity.StageName
	tag  string
}

func (s stubStage) Name() entity.StageName { return s.name }

func (s stubStage) Run(context.Context, input.StageRun) entity.StageResult {
	return entity.StageResult{Stage: s.name, OK: true, Reason: s.tag}
}

func TestStageRegistry_KeepsRegistrationOrder(t *testing.T) {
	r := NewStageRegistry(
		stubStage{name: entity.StageAuthentication},
		stubStage{name: entity.StageSimulation},
	)
	r.Register(stubStage{name: entity.StageRegistration})
	r.Register(stubStage{name: entity.StageDocuments})

	assert.Equal(t, []entity.StageName{
		entity.StageAuthentication,
		entity.StageSimulation,
		entity.StageRegistration,
		entity.StageDocuments,
	}, r.List())

	all := r.All()
	require.Len(t, all, 4)
	assert.Equal(t, entity.StageDocuments, all[3].Name())
}

func TestStageRegistry_ReplaceKeepsPosition(t *testing.T) {
	r := NewStageRegistry(
		stubStage{name: entity.StageAuthentication, tag: "old"},
		stubStage{name: entity.StageSimulation},
	)
	r.Register(stubStage{name: entity.StageAuthentication, tag: "new"})

	assert.Equal(t, []entity.StageName{entity.StageAuthentication, entity.StageSimulation}, r.List())

	stage, ok := r.Get(entity.StageAuthentication)
	require.True(t, ok)
	assert.Equal(t, "new", stage.Run(context.Background(), input.StageRun{}).Reason)
}

func TestStageRegistry_GetUnknown(t *testing.T) {
	r := NewStageRegistry()

	_, ok := r.Get(entity.StageDocuments)
	assert.False(t, ok)
	assert.Empty(t, r.All())
}
