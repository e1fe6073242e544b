package entity

import "time"

type StageName string

const (
	StageAuthentication StageName = "authentication"
	StageSimulation     StageName = "simulation"
	StageRegistration   StageName = "registration"
	StageDocuments      StageName = "documents"
)

type InteractionStatus string

const (
	StatusOK       InteractionStatus = "ok"
	StatusNotFound InteractionStatus = "not_found"
	StatusTimeout  InteractionStatus = "timeout"
	StatusFailed   InteractionStatus = "failed"
	StatusSkipped  InteractionStatus = "skipped"
)

func (s InteractionStatus) OK() bool {
	return s == StatusOK || s == StatusSkipped
}

type FieldOutcome struct {
	Field     string            `json:"field"`
	Status    InteractionStatus `json:"status"`
	Mandatory bool              `json:"mandatory"`
	Detail    string            `json:"detail,omitempty"`
}

// Blocking reports whether the outcome must stop a stage: any real failure,
// or a mandatory field that had nothing to write.
func (o FieldOutcome) Blocking() bool {
	if o.Status == StatusSkipped {
		return o.Mandatory
	}
	return o.Status != StatusOK
}

// FieldReport separates cosmetically incomplete outcomes from unusable ones.
type FieldReport struct {
	SkippedOptional []FieldOutcome `json:"skipped_optional,omitempty"`
	FailedMandatory []FieldOutcome `json:"failed_mandatory,omitempty"`
}

func (r *FieldReport) Record(o FieldOutcome) {
	if o.Status == StatusOK {
		return
	}
	if o.Mandatory {
		r.FailedMandatory = append(r.FailedMandatory, o)
		return
	}
	r.SkippedOptional = append(r.SkippedOptional, o)
}

func (r *FieldReport) Merge(other FieldReport) {
	r.SkippedOptional = append(r.SkippedOptional, other.SkippedOptional...)
	r.FailedMandatory = append(r.FailedMandatory, other.FailedMandatory...)
}

func (r FieldReport) Usable() bool {
	return len(r.FailedMandatory) == 0
}

type StageResult struct {
	Stage       StageName
	OK          bool
	Reason      string
	Err         error
	Screenshots []string
	Report      FieldReport
	Duration    time.Duration
}
