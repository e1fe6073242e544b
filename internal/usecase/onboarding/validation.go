package onboarding

import (
	"context"
	"fmt"
	"strings"

	"onboarding-bot/internal/domain/entity"
)

// validate runs right before save. It reads the mandatory subset back from the
// UI and refuses to continue if any is empty, then gives a few fields the form
// tends to lose a second chance.
func (st *RegistrationStage) validate(ctx context.Context, s *stageRun, wctx entity.WorkflowContext) error {
	var missing []string
	for _, f := range requiredBeforeSave {
		val, o := s.it.Read(ctx, f)
		if o.Status != entity.StatusOK {
			s.it.logger.Warn("Mandatory field unreadable", "field", f.Name, "status", o.Status)
			missing = append(missing, f.Name)
			continue
		}
		if strings.TrimSpace(val) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMandatoryFieldMissing, strings.Join(missing, ", "))
	}

	st.secondChance(ctx, s, wctx)
	return nil
}

func (st *RegistrationStage) secondChance(ctx context.Context, s *stageRun, wctx entity.WorkflowContext) {
	if st.isEmpty(ctx, s, regStreet) && st.addresses != nil && wctx.PostalCode != "" {
		if lookup := st.addresses.Lookup(ctx, wctx.PostalCode); lookup != nil {
			s.tolerate(s.it.Fill(ctx, regStreet, lookup.Street))
		}
	}

	if st.isEmpty(ctx, s, regCity) {
		s.tolerate(s.it.Fill(ctx, regCity, st.defaults.City))
	}

	s.tolerate(s.it.Fill(ctx, regAdmissionDate, valueOr(wctx.AdmissionDate, st.defaults.AdmissionDate), ThenBlur()))

	if wctx.Bank != "" {
		s.tolerate(s.it.Select(ctx, regBank, wctx.Bank))
	}
}

func (st *RegistrationStage) isEmpty(ctx context.Context, s *stageRun, f Field) bool {
	val, o := s.it.Read(ctx, f)
	return o.Status == entity.StatusOK && strings.TrimSpace(val) == ""
}
