package onboarding

import (
	"context"
	"strings"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

const (
	defaultMaritalStatus = "2"
	defaultRegion        = "RR"
	defaultCity          = "Boa Vista"
	fallbackAdmission    = "20/03/2021"
)

var validMaritalStatus = map[string]bool{"1": true, "2": true, "3": true, "4": true, "5": true}

var _ input.Stage = (*RegistrationStage)(nil)

type RegistrationDefaults struct {
	// Region is the single operating region the address UF is pinned to.
	Region        string
	City          string
	AdmissionDate string
}

type RegistrationStage struct {
	addresses output.AddressLookupPort
	defaults  RegistrationDefaults
	timing    Timing
}

func NewRegistrationStage(addresses output.AddressLookupPort, defaults RegistrationDefaults, timing Timing) *RegistrationStage {
	if defaults.Region == "" {
		defaults.Region = defaultRegion
	}
	if defaults.City == "" {
		defaults.City = defaultCity
	}
	if defaults.AdmissionDate == "" {
		defaults.AdmissionDate = fallbackAdmission
	}
	return &RegistrationStage{
		addresses: addresses,
		defaults:  defaults,
		timing:    timing,
	}
}

func (st *RegistrationStage) Name() entity.StageName {
	return entity.StageRegistration
}

type entry struct {
	field  Field
	value  string
	choice bool
	opts   []Option
}

func text(f Field, value string, opts ...Option) entry {
	return entry{field: f, value: value, opts: opts}
}

func choice(f Field, value string) entry {
	return entry{field: f, value: value, choice: true}
}

func (st *RegistrationStage) Run(ctx context.Context, run input.StageRun) entity.StageResult {
	s := newStageRun(st.Name(), run, st.timing)
	wctx := run.Context

	st.fill(ctx, s, st.documentation(wctx))
	st.fill(ctx, s, st.personal(wctx))
	st.fillAddress(ctx, s, wctx)
	st.fill(ctx, s, st.employment(wctx))
	st.fill(ctx, s, st.banking(wctx))
	st.fill(ctx, s, st.contact(wctx))

	if err := canceled(ctx); err != nil {
		return s.failWith(err)
	}

	if err := st.validate(ctx, s, wctx); err != nil {
		return s.failWith(err)
	}

	if err := s.require(s.it.Click(ctx, regSave, Settle(2), Diagnose("erro_botao_gravar.png"))); err != nil {
		return s.failWith(err)
	}
	s.it.logger.Info("Registration saved")
	return s.succeed()
}

// fill writes every entry, skipping failed optional fields. Mandatory
// failures are recorded and left for the pre-save validation to judge
// against the values the UI actually holds.
func (st *RegistrationStage) fill(ctx context.Context, s *stageRun, entries []entry) {
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		var o entity.FieldOutcome
		if e.choice {
			o = s.it.Select(ctx, e.field, e.value, e.opts...)
		} else {
			o = s.it.Fill(ctx, e.field, e.value, e.opts...)
		}
		s.tolerate(o)
	}
}

func (st *RegistrationStage) documentation(wctx entity.WorkflowContext) []entry {
	return []entry{
		text(regRG, wctx.RG),
		text(regRGIssueDate, wctx.RGIssueDate),
		text(regIssuingBody, wctx.IssuingBody),
		choice(regIssuingUF, wctx.IssuingUF),
	}
}

func (st *RegistrationStage) personal(wctx entity.WorkflowContext) []entry {
	return []entry{
		text(regBirthplace, wctx.Birthplace),
		choice(regBirthUF, wctx.BirthUF),
		choice(regSex, SexCode(wctx.Sex)),
		choice(regMaritalStatus, MaritalStatusCode(wctx.MaritalStatus)),
		text(regMotherName, wctx.MotherName),
	}
}

// fillAddress enters the postal code first so the target UI can run its own
// lookup, then overlays whatever the enricher knows. Without enrichment data
// street and neighborhood are left to the UI.
func (st *RegistrationStage) fillAddress(ctx context.Context, s *stageRun, wctx entity.WorkflowContext) {
	st.fill(ctx, s, []entry{text(regPostalCode, wctx.PostalCode, Settle(2))})

	var lookup *entity.AddressLookupResult
	if wctx.PostalCode != "" && st.addresses != nil {
		lookup = st.addresses.Lookup(ctx, wctx.PostalCode)
	}

	var entries []entry
	if lookup != nil {
		entries = append(entries,
			text(regStreet, lookup.Street),
			text(regNeighborhood, lookup.Neighborhood),
		)
	} else {
		s.it.logger.Warn("No address data for postal code, leaving street to the form")
		if wctx.Street != "" {
			entries = append(entries, text(regStreet, wctx.Street))
		}
	}
	entries = append(entries,
		text(regNumber, wctx.Number),
		choice(regRegion, st.defaults.Region),
		text(regComplement, wctx.Complement),
	)
	st.fill(ctx, s, entries)
}

func (st *RegistrationStage) employment(wctx entity.WorkflowContext) []entry {
	return []entry{
		text(regAdmissionDate, wctx.AdmissionDate, ThenBlur()),
		choice(regProfession, wctx.Profession),
		text(regProfessionDescription, wctx.ProfessionDescription),
		text(regRole, wctx.Role),
		text(regIncome, wctx.Income),
	}
}

func (st *RegistrationStage) banking(wctx entity.WorkflowContext) []entry {
	return []entry{
		choice(regAccountType, wctx.AccountType),
		choice(regBank, wctx.Bank),
		text(regAgency, wctx.Agency),
		text(regAccount, wctx.Account),
		text(regCheckDigit, wctx.CheckDigit),
	}
}

func (st *RegistrationStage) contact(wctx entity.WorkflowContext) []entry {
	return []entry{
		text(regAreaCode, wctx.AreaCode),
		text(regPhone, wctx.Phone),
		text(regEmail, wctx.Email),
	}
}

// SexCode maps the descriptive value to the form's single-letter code.
// Empty input stays empty so the field is skipped.
func SexCode(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "":
		return ""
	case "MASCULINO", "M":
		return "M"
	default:
		return "F"
	}
}

// MaritalStatusCode accepts 1 casado, 2 solteiro, 3 divorciado, 4 viuvo and
// 5 desquitado. Anything else becomes 2.
func MaritalStatusCode(v string) string {
	v = strings.TrimSpace(v)
	if validMaritalStatus[v] {
		return v
	}
	return defaultMaritalStatus
}
