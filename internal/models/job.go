package models

import "time"

// Job is a single posted position on the board.
type Job struct {
	ID            string     `json:"id,omitempty"`
	EmployerID    string     `json:"employer_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	Salary        float64    `json:"salary"`
	SalaryType    string     `json:"salary_type"`
	JobType       string     `json:"job_type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"` // when set, strictly after StartDate
	WorkersNeeded int        `json:"workers_needed"`
	Skills        []string   `json:"skills,omitempty"`
	Status        string     `json:"status"`
	IsBoosted     bool       `json:"is_boosted"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Job category constants
const (
	CategoryCropFarming   = "crop_farming"
	CategoryLivestock     = "livestock"
	CategoryPoultry       = "poultry"
	CategoryHorticulture  = "horticulture"
	CategoryDairy         = "dairy"
	CategoryAquaculture   = "aquaculture"
	CategoryAgroProcess   = "agro_processing"
	CategoryIrrigation    = "irrigation"
	CategoryGeneralLabour = "general_labour"
)

// JobType constants
const (
	JobTypeTemporary = "temporary"
	JobTypeSeasonal  = "seasonal"
	JobTypePermanent = "permanent"
	JobTypeContract  = "contract"
)

// SalaryType constants
const (
	SalaryDaily     = "daily"
	SalaryWeekly    = "weekly"
	SalaryMonthly   = "monthly"
	SalaryFixed     = "fixed"
	SalarySeasonal  = "seasonal"
	SalaryPieceRate = "piece_rate"
)

// Job status constants
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusFilled    = "filled"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusPaused    = "paused"
)

// JobCategories lists the fixed set of allowed categories.
var JobCategories = []string{
	CategoryCropFarming,
	CategoryLivestock,
	CategoryPoultry,
	CategoryHorticulture,
	CategoryDairy,
	CategoryAquaculture,
	CategoryAgroProcess,
	CategoryIrrigation,
	CategoryGeneralLabour,
}

// JobTypes lists the allowed job types.
var JobTypes = []string{JobTypeTemporary, JobTypeSeasonal, JobTypePermanent, JobTypeContract}

// SalaryTypes lists the allowed salary types.
var SalaryTypes = []string{SalaryDaily, SalaryWeekly, SalaryMonthly, SalaryFixed, SalarySeasonal, SalaryPieceRate}

// Clone returns a deep copy of the job. Skills and EndDate are copied so the
// caller can mutate the result without touching the original.
func (j Job) Clone() Job {
	out := j
	if j.Skills != nil {
		out.Skills = append([]string(nil), j.Skills...)
	}
	if j.EndDate != nil {
		end := *j.EndDate
		out.EndDate = &end
	}
	return out
}

// CloneJobs deep-copies a slice of jobs.
func CloneJobs(jobs []Job) []Job {
	if jobs == nil {
		return nil
	}
	out := make([]Job, len(jobs))
	for i := range jobs {
		out[i] = jobs[i].Clone()
	}
	return out
}
