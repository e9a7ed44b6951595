package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"farmwork-hub-go/internal/models"
)

// FormResult aggregates field failures for a whole form. Errors keep the
// form's field declaration order; IsValid is true only when every field
// passed. Validation never short-circuits: all fields are checked even when
// several are invalid at once.
type FormResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

type formErrors struct {
	errors []string
}

func (f *formErrors) add(r FieldResult) {
	if !r.IsValid {
		f.errors = append(f.errors, r.Error)
	}
}

func (f *formErrors) addMulti(r MultiResult) {
	if !r.IsValid {
		f.errors = append(f.errors, r.Messages...)
	}
}

func (f *formErrors) result() FormResult {
	return FormResult{IsValid: len(f.errors) == 0, Errors: f.errors}
}

// LoginForm carries login credentials.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLoginForm checks presence of both credentials. Password
// complexity is not enforced at login; that would lock out accounts that
// predate the current policy.
func ValidateLoginForm(form LoginForm) FormResult {
	var f formErrors
	f.add(ValidateEmail(form.Email))
	if form.Password == "" {
		f.add(invalid("Password is required"))
	}
	return f.result()
}

// RegistrationForm carries the fields collected at sign-up.
type RegistrationForm struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Location  string `json:"location"`
}

// ValidateRegistrationForm runs the full field validators for sign-up.
func ValidateRegistrationForm(form RegistrationForm) FormResult {
	var f formErrors
	f.add(ValidateEmail(form.Email))
	f.addMulti(ValidatePassword(form.Password))
	f.add(ValidateName(form.FirstName, "First name"))
	f.add(ValidateName(form.LastName, "Last name"))
	f.add(ValidatePhone(form.Phone))
	if form.Role != models.RoleWorker && form.Role != models.RoleEmployer {
		f.add(invalid("Role must be worker or employer"))
	}
	f.add(ValidateLocation(form.Location))
	return f.result()
}

// JobPostingForm carries the fields an employer submits when posting.
type JobPostingForm struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Location      string     `json:"location"`
	Salary        float64    `json:"salary"`
	SalaryType    string     `json:"salary_type"`
	JobType       string     `json:"job_type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	WorkersNeeded int        `json:"workers_needed"`
	Skills        []string   `json:"skills,omitempty"`
}

// ValidateJobPostingForm checks a posting against the employer flow rules:
// the longer description floor and the posting salary ceiling apply.
func ValidateJobPostingForm(form JobPostingForm, now time.Time) FormResult {
	var f formErrors
	f.add(ValidateJobTitle(form.Title))
	f.add(ValidateJobDescription(form.Description, DescriptionMinPosting))
	if !oneOf(form.Category, models.JobCategories) {
		f.add(invalid("Please select a valid category"))
	}
	f.add(ValidateLocation(form.Location))
	f.add(ValidateSalary(form.Salary, PostingSalaryCeiling))
	if !oneOf(form.SalaryType, models.SalaryTypes) {
		f.add(invalid("Please select a valid salary type"))
	}
	if !oneOf(form.JobType, models.JobTypes) {
		f.add(invalid("Please select a valid job type"))
	}
	f.add(ValidateStartDate(form.StartDate, now))
	f.add(ValidateEndDate(form.StartDate, form.EndDate))
	f.add(ValidateWorkersNeeded(form.WorkersNeeded))
	f.add(ValidateSkills(form.Skills))
	return f.result()
}

// RatingForm carries feedback left on another user after a job completes.
type RatingForm struct {
	JobID   string `json:"job_id"`
	RateeID string `json:"ratee_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// ValidateRatingForm checks a rating before submission. The comment is
// optional and capped at 500 characters.
func ValidateRatingForm(form RatingForm) FormResult {
	var f formErrors
	if strings.TrimSpace(form.JobID) == "" {
		f.add(invalid("Job is required"))
	}
	if strings.TrimSpace(form.RateeID) == "" {
		f.add(invalid("Rated user is required"))
	}
	if form.Score < 1 || form.Score > 5 {
		f.add(invalid("Score must be between 1 and 5"))
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.Comment)) > 500 {
		f.add(invalid("Comment must be at most 500 characters"))
	}
	return f.result()
}

// JobApplicationForm carries a worker's application.
type JobApplicationForm struct {
	JobID       string `json:"job_id"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// ValidateJobApplicationForm checks an application before submission.
func ValidateJobApplicationForm(form JobApplicationForm) FormResult {
	var f formErrors
	if strings.TrimSpace(form.JobID) == "" {
		f.add(invalid("Job is required"))
	}
	f.add(ValidateCoverLetter(form.CoverLetter))
	return f.result()
}
