// Package validation implements field- and form-level validation for the
// hub. Validators never return Go errors: every check reports pass/fail
// plus human-readable messages as data, so callers can render them.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Salary ceilings. The web client and the posting API historically shipped
// with different ceilings; both are kept as named constants until the
// product owner reconciles them. Callers pick the ceiling for their flow.
const (
	ClientSalaryCeiling  = 10_000_000
	PostingSalaryCeiling = 1_000_000
)

// Description length floors. The general flow (e.g. application notes)
// accepts shorter text than an employer posting a job.
const (
	DescriptionMinGeneral = 10
	DescriptionMinPosting = 50
	DescriptionMax        = 2000
)

// FieldResult is the outcome of a single-message validator.
type FieldResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// MultiResult is the outcome of a validator that can fail several ways at
// once (currently only passwords).
type MultiResult struct {
	IsValid  bool     `json:"is_valid"`
	Messages []string `json:"messages,omitempty"`
}

func valid() FieldResult {
	return FieldResult{IsValid: true}
}

func invalid(msg string) FieldResult {
	return FieldResult{Error: msg}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail requires a standard local@domain.tld address.
func ValidateEmail(email string) FieldResult {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Please enter a valid email address")
	}
	return valid()
}

var (
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword requires 8-128 characters with at least one uppercase
// letter, one lowercase letter and one digit. All applicable failures are
// reported together; an empty password reports only the required message.
func ValidatePassword(password string) MultiResult {
	if password == "" {
		return MultiResult{Messages: []string{"Password is required"}}
	}

	var messages []string
	if utf8.RuneCountInString(password) < 8 {
		messages = append(messages, "Password must be at least 8 characters long")
	}
	if utf8.RuneCountInString(password) > 128 {
		messages = append(messages, "Password must be at most 128 characters long")
	}
	if !upperPattern.MatchString(password) {
		messages = append(messages, "Password must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		messages = append(messages, "Password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		messages = append(messages, "Password must contain at least one number")
	}
	return MultiResult{IsValid: len(messages) == 0, Messages: messages}
}

var namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

// ValidateName checks a first or last name. The field label is used in the
// message so the same validator serves both.
func ValidateName(name, field string) FieldResult {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid(fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(trimmed) < 2 || utf8.RuneCountInString(trimmed) > 50 {
		return invalid(fmt.Sprintf("%s must be between 2 and 50 characters", field))
	}
	if !namePattern.MatchString(trimmed) {
		return invalid(fmt.Sprintf("%s can only contain letters, spaces, hyphens and apostrophes", field))
	}
	return valid()
}

// Phone patterns: a generic international form plus country-specific forms
// for the markets the hub operates in.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+?[1-9]\d{7,11}$`),    // generic
	regexp.MustCompile(`^(\+254|0)[17]\d{8}$`),  // Kenya
	regexp.MustCompile(`^(\+256|0)[47]\d{8}$`),  // Uganda
	regexp.MustCompile(`^(\+255|0)[67]\d{8}$`),  // Tanzania
	regexp.MustCompile(`^(\+250|0)7\d{8}$`),     // Rwanda
	regexp.MustCompile(`^(\+251|0)9\d{8}$`),     // Ethiopia
	regexp.MustCompile(`^(\+233|0)[25]\d{8}$`),  // Ghana
	regexp.MustCompile(`^(\+234|0)[789]\d{9}$`), // Nigeria
	regexp.MustCompile(`^(\+27|0)[678]\d{8}$`),  // South Africa
}

// ValidatePhone accepts a generic international number or any supported
// country format. Spaces, dashes and parentheses are ignored.
func ValidatePhone(phone string) FieldResult {
	if strings.TrimSpace(phone) == "" {
		return invalid("Phone number is required")
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	for _, p := range phonePatterns {
		if p.MatchString(cleaned) {
			return valid()
		}
	}
	return invalid("Please enter a valid phone number")
}

// ValidateBio allows an empty bio but caps it at 500 characters.
func ValidateBio(bio string) FieldResult {
	if utf8.RuneCountInString(strings.TrimSpace(bio)) > 500 {
		return invalid("Bio must be at most 500 characters")
	}
	return valid()
}

// ValidateJobTitle requires a trimmed length of 3-100 characters.
func ValidateJobTitle(title string) FieldResult {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return invalid("Job title is required")
	}
	if utf8.RuneCountInString(trimmed) < 3 {
		return invalid("Job title must be at least 3 characters")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return invalid("Job title must be at most 100 characters")
	}
	return valid()
}

// ValidateJobDescription checks length against the given floor
// (DescriptionMinGeneral or DescriptionMinPosting) and the shared cap.
func ValidateJobDescription(description string, minLength int) FieldResult {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return invalid("Job description is required")
	}
	if utf8.RuneCountInString(trimmed) < minLength {
		return invalid(fmt.Sprintf("Job description must be at least %d characters", minLength))
	}
	if utf8.RuneCountInString(trimmed) > DescriptionMax {
		return invalid(fmt.Sprintf("Job description must be at most %d characters", DescriptionMax))
	}
	return valid()
}

// ValidateCoverLetter allows an empty cover letter but caps it at 1500
// characters.
func ValidateCoverLetter(coverLetter string) FieldResult {
	if utf8.RuneCountInString(strings.TrimSpace(coverLetter)) > 1500 {
		return invalid("Cover letter must be at most 1500 characters")
	}
	return valid()
}

// ValidateSalary requires a positive amount no greater than the caller's
// ceiling (ClientSalaryCeiling or PostingSalaryCeiling).
func ValidateSalary(salary float64, ceiling float64) FieldResult {
	if salary <= 0 {
		return invalid("Salary must be greater than 0")
	}
	if salary > ceiling {
		return invalid(fmt.Sprintf("Salary must not exceed %.0f", ceiling))
	}
	return valid()
}

// ValidateWorkersNeeded requires an integer between 1 and 1000.
func ValidateWorkersNeeded(workers int) FieldResult {
	if workers < 1 {
		return invalid("At least one worker is required")
	}
	if workers > 1000 {
		return invalid("Workers needed must be at most 1000")
	}
	return valid()
}

// ValidateSkills allows an empty list; otherwise at most 20 entries, each
// non-empty and at most 50 characters.
func ValidateSkills(skills []string) FieldResult {
	if len(skills) > 20 {
		return invalid("At most 20 skills are allowed")
	}
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			return invalid("Skills cannot be empty")
		}
		if utf8.RuneCountInString(trimmed) > 50 {
			return invalid("Each skill must be at most 50 characters")
		}
	}
	return valid()
}

// ValidateStartDate requires a set date that is not before today. The
// comparison is date-only: a start date of today passes regardless of
// time-of-day.
func ValidateStartDate(start time.Time, now time.Time) FieldResult {
	if start.IsZero() {
		return invalid("Start date is required")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if startDay.Before(today) {
		return invalid("Start date cannot be in the past")
	}
	return valid()
}

// ValidateEndDate allows a nil end date; when present it must be strictly
// after the start date.
func ValidateEndDate(start time.Time, end *time.Time) FieldResult {
	if end == nil {
		return valid()
	}
	if end.IsZero() {
		return invalid("End date is invalid")
	}
	if !end.After(start) {
		return invalid("End date must be after start date")
	}
	return valid()
}

// ValidateLocation requires a trimmed length of 2-100 characters.
func ValidateLocation(location string) FieldResult {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return invalid("Location is required")
	}
	if utf8.RuneCountInString(trimmed) < 2 || utf8.RuneCountInString(trimmed) > 100 {
		return invalid("Location must be between 2 and 100 characters")
	}
	return valid()
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
