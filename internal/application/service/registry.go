package service

import (
	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

// StageRegistry keeps workflow stages in the order they were registered.
// Registering a name twice replaces the stage in place.
type StageRegistry struct {
	order  []entity.StageName
	stages map[entity.StageName]input.Stage
}

func NewStageRegistry(stages ...input.Stage) *StageRegistry {
	r := &StageRegistry{
		stages: make(map[entity.StageName]input.Stage),
	}
	for _, stage := range stages {
		r.Register(stage)
	}
	return r
}

func (r *StageRegistry) Register(stage input.Stage) {
	name := stage.Name()
	if _, exists := r.stages[name]; !exists {
		r.order = append(r.order, name)
	}
	r.stages[name] = stage
}

func (r *StageRegistry) Get(name entity.StageName) (input.Stage, bool) {
	stage, ok := r.stages[name]
	return stage, ok
}

func (r *StageRegistry) All() []input.Stage {
	result := make([]input.Stage, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.stages[name])
	}
	return result
}

func (r *StageRegistry) List() []entity.StageName {
	result := make([]entity.StageName, len(r.order))
	copy(result, r.order)
	return result
}
