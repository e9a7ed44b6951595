package models

// Sort keys accepted by FilterSpec.SortBy.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortSalaryHigh = "salary_high"
	SortSalaryLow  = "salary_low"
	SortLocation   = "location"
	SortTitle      = "title"
)

// FilterSpec carries the user-chosen criteria narrowing the job list.
// Zero values / nil pointers mean the filter is not applied. Search,
// location and skills matching is case-insensitive substring matching;
// category, job type and salary type are exact matches. Constructed per
// query, never persisted.
type FilterSpec struct {
	Search     string   `json:"search,omitempty"`
	Location   string   `json:"location,omitempty"`
	Category   string   `json:"category,omitempty"`
	JobType    string   `json:"job_type,omitempty"`
	SalaryType string   `json:"salary_type,omitempty"`
	SalaryMin  *float64 `json:"salary_min,omitempty"`
	SalaryMax  *float64 `json:"salary_max,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"` // defaults to newest
	Page       int      `json:"page,omitempty"`    // 1-indexed, defaults to 1
	PageSize   int      `json:"page_size,omitempty"`
}
