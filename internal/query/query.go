// Package query filters, sorts and paginates job lists. All functions are
// pure: they never mutate their inputs and are deterministic for identical
// inputs (ties keep the original slice order).
package query

import (
	"sort"
	"strings"

	"farmwork-hub-go/internal/models"
)

// DefaultPageSize applies when FilterSpec.PageSize is zero or negative.
const DefaultPageSize = 10

// Result is one page of a filtered job list. TotalCount is the size of the
// filtered set before pagination so callers can compute "has more".
type Result struct {
	Items      []models.Job `json:"items"`
	TotalCount int          `json:"total_count"`
}

// TotalPages returns the number of pages the filtered set spans at the
// given page size.
func (r Result) TotalPages(pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (r.TotalCount + pageSize - 1) / pageSize
}

// Run applies spec to jobs: conjunctive filtering, boosted-first stable
// sorting, then pagination. A spec with no filters returns all jobs
// reordered only by the boosted/sort rule. A page past the end yields an
// empty Items slice, not an error.
func Run(jobs []models.Job, spec models.FilterSpec) Result {
	filtered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if matches(job, spec) {
			filtered = append(filtered, job)
		}
	}

	sortJobs(filtered, spec.SortBy)

	page := spec.Page
	if page < 1 {
		page = 1
	}
	size := spec.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Items:      filtered[start:end],
		TotalCount: len(filtered),
	}
}

// matches reports whether the job satisfies every filter present in spec.
func matches(job models.Job, spec models.FilterSpec) bool {
	if spec.Search != "" && !matchesSearch(job, spec.Search) {
		return false
	}
	if spec.Location != "" && !containsFold(job.Location, spec.Location) {
		return false
	}
	if spec.Category != "" && job.Category != spec.Category {
		return false
	}
	if spec.JobType != "" && job.JobType != spec.JobType {
		return false
	}
	if spec.SalaryType != "" && job.SalaryType != spec.SalaryType {
		return false
	}
	if spec.SalaryMin != nil && job.Salary < *spec.SalaryMin {
		return false
	}
	if spec.SalaryMax != nil && job.Salary > *spec.SalaryMax {
		return false
	}
	if len(spec.Skills) > 0 && !matchesSkills(job.Skills, spec.Skills) {
		return false
	}
	return true
}

// matchesSearch checks the term against title, description and every skill.
func matchesSearch(job models.Job, term string) bool {
	if containsFold(job.Title, term) || containsFold(job.Description, term) {
		return true
	}
	for _, skill := range job.Skills {
		if containsFold(skill, term) {
			return true
		}
	}
	return false
}

// matchesSkills passes when any requested skill substring-matches any job
// skill.
func matchesSkills(jobSkills, wanted []string) bool {
	for _, w := range wanted {
		for _, s := range jobSkills {
			if containsFold(s, w) {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortJobs orders jobs in place: boosted jobs first regardless of the sort
// key, then the requested comparator within each partition. The sort is
// stable so equal jobs keep their input order.
func sortJobs(jobs []models.Job, sortBy string) {
	cmp := comparator(sortBy)
	sort.SliceStable(jobs, func(i, k int) bool {
		if jobs[i].IsBoosted != jobs[k].IsBoosted {
			return jobs[i].IsBoosted
		}
		return cmp(jobs[i], jobs[k])
	})
}

func comparator(sortBy string) func(a, b models.Job) bool {
	switch sortBy {
	case models.SortOldest:
		return func(a, b models.Job) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case models.SortSalaryHigh:
		return func(a, b models.Job) bool { return a.Salary > b.Salary }
	case models.SortSalaryLow:
		return func(a, b models.Job) bool { return a.Salary < b.Salary }
	case models.SortLocation:
		return func(a, b models.Job) bool {
			return strings.ToLower(a.Location) < strings.ToLower(b.Location)
		}
	case models.SortTitle:
		return func(a, b models.Job) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default: // newest
		return func(a, b models.Job) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
}
