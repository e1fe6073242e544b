package entity

type RunStatus string

const (
	RunSucceeded            RunStatus = "success"
	RunAuthenticationFailed RunStatus = "authentication_failed"
	RunStageFailed          RunStatus = "stage_failed"
)

type RunPlan struct {
	SimulateOnly bool
}

type RunOutcome struct {
	RunID       string      `json:"run_id"`
	Status      RunStatus   `json:"status"`
	FailedStage StageName   `json:"failed_stage,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Screenshots []string    `json:"screenshots,omitempty"`
	Artifacts   []Artifact  `json:"artifacts,omitempty"`
	Report      FieldReport `json:"report"`
}

func (o RunOutcome) Succeeded() bool {
	return o.Status == RunSucceeded
}

type Artifact struct {
	Name string `json:"name"`
	Path string `json:"-"`
	URL  string `json:"url,omitempty"`
}
