package submission

import (
	"encoding/json"
	"fmt"
	"io"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

// Payload is the JSON shape callers send: the workflow context plus optional
// document references (local path, http(s) URL or do://<key>).
type Payload struct {
	entity.WorkflowContext
	IDBack         string `json:"arquivo_rg_verso,omitempty"`
	ProofOfAddress string `json:"arquivo_comprovante_endereco,omitempty"`
	ProofOfIncome  string `json:"arquivo_comprovante_renda,omitempty"`
}

func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("%w: decode payload: %w", ErrInvalidRequest, err)
	}
	return p, nil
}

func (p Payload) Request(plan entity.RunPlan) input.SubmissionRequest {
	refs := input.DocumentRefs{}
	for kind, ref := range map[entity.DocumentKind]string{
		entity.DocumentIDBack:         p.IDBack,
		entity.DocumentProofOfAddress: p.ProofOfAddress,
		entity.DocumentProofOfIncome:  p.ProofOfIncome,
	} {
		if ref != "" {
			refs[kind] = ref
		}
	}
	return input.SubmissionRequest{
		Context:   p.WorkflowContext,
		Documents: refs,
		Plan:      plan,
	}
}
