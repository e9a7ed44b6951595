// Package jobs implements the board's job operations: posting, querying,
// status transitions, applications and expiry.
package jobs

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/internal/query"
	"farmwork-hub-go/internal/storage"
	"farmwork-hub-go/internal/validation"
	"farmwork-hub-go/pkg/htmltext"
)

// ErrValidation wraps a failed form validation so callers can branch on it.
// The messages themselves travel in ValidationError.Result.
var ErrValidation = errors.New("validation failed")

// ErrDuplicatePosting flags an identical re-post (same employer, title and
// location as an existing posting).
var ErrDuplicatePosting = errors.New("an identical job posting already exists")

// ErrDuplicateApplication flags a second application by the same worker to
// the same job.
var ErrDuplicateApplication = errors.New("you have already applied to this job")

// ErrInvalidState flags an operation the record's current status does not
// allow, e.g. a disallowed lifecycle transition.
var ErrInvalidState = errors.New("operation not allowed in the current status")

// ValidationError carries the collected field messages of a rejected form.
type ValidationError struct {
	Result validation.FormResult
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// allowed job status transitions
var transitions = map[string][]string{
	models.StatusDraft:  {models.StatusActive, models.StatusCancelled},
	models.StatusActive: {models.StatusFilled, models.StatusExpired, models.StatusCancelled, models.StatusPaused},
	models.StatusPaused: {models.StatusActive, models.StatusCancelled, models.StatusExpired},
}

// allowed application status transitions; accepted, rejected and withdrawn
// are terminal
var applicationTransitions = map[string][]string{
	models.ApplicationPending: {models.ApplicationAccepted, models.ApplicationRejected, models.ApplicationWithdrawn},
}

// Service owns job board operations over a Store.
type Service struct {
	store  storage.Store
	dedup  *Deduplicator
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService creates a Service. The deduplicator is seeded from the store's
// current postings.
func NewService(store storage.Store, logger *zap.SugaredLogger) (*Service, error) {
	s := &Service{
		store:  store,
		dedup:  NewDeduplicator(),
		logger: logger,
		now:    time.Now,
	}
	existing, err := store.GetJobs()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load existing jobs")
	}
	s.dedup.Load(existing)
	return s, nil
}

// Post validates and stores a new posting for the employer. The description
// is reduced to plain text before storage. Identical re-posts are rejected.
// A new posting starts in the draft status unless activate is set.
func (s *Service) Post(employerID string, form validation.JobPostingForm, activate bool) (*models.Job, error) {
	if result := validation.ValidateJobPostingForm(form, s.now()); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}

	status := models.StatusDraft
	if activate {
		status = models.StatusActive
	}
	job := models.Job{
		ID:            uuid.New().String(),
		EmployerID:    employerID,
		Title:         form.Title,
		Description:   htmltext.Strip(form.Description),
		Category:      form.Category,
		Location:      form.Location,
		Salary:        form.Salary,
		SalaryType:    form.SalaryType,
		JobType:       form.JobType,
		StartDate:     form.StartDate,
		EndDate:       form.EndDate,
		WorkersNeeded: form.WorkersNeeded,
		Skills:        form.Skills,
		Status:        status,
		CreatedAt:     s.now(),
	}

	if s.dedup.IsDuplicate(job) {
		return nil, ErrDuplicatePosting
	}

	if err := s.store.SaveJob(&job); err != nil {
		return nil, errors.Wrap(err, "failed to save job")
	}
	s.dedup.Remember(job)

	s.logger.Infow("job posted",
		"job_id", job.ID,
		"employer_id", employerID,
		"category", job.Category,
		"status", job.Status,
	)
	return &job, nil
}

// Get fetches a single job. Absent IDs surface storage.ErrNotFound.
func (s *Service) Get(id string) (*models.Job, error) {
	return s.store.GetJob(id)
}

// Query runs the filter/sort/paginate engine over the stored jobs.
func (s *Service) Query(spec models.FilterSpec) (query.Result, error) {
	jobs, err := s.store.GetJobs()
	if err != nil {
		return query.Result{}, errors.Wrap(err, "failed to load jobs")
	}
	return query.Run(jobs, spec), nil
}

// Transition moves a job to a new status, enforcing the lifecycle rules.
func (s *Service) Transition(id, to string) (*models.Job, error) {
	job, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}

	if !allowedTransition(transitions, job.Status, to) {
		return nil, errors.Wrapf(ErrInvalidState, "cannot move job from %s to %s", job.Status, to)
	}

	job.Status = to
	if err := s.store.UpdateJob(job); err != nil {
		return nil, err
	}
	if to == models.StatusCancelled {
		s.dedup.Forget(*job)
	}

	s.logger.Infow("job status changed", "job_id", id, "status", to)
	return job, nil
}

func allowedTransition(table map[string][]string, from, to string) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Apply submits a worker's application to an active job. Applying twice to
// the same job is rejected.
func (s *Service) Apply(workerID string, form validation.JobApplicationForm) (*models.Application, error) {
	if result := validation.ValidateJobApplicationForm(form); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}

	job, err := s.store.GetJob(form.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.StatusActive {
		return nil, errors.Wrapf(ErrInvalidState, "job %s is not accepting applications", job.ID)
	}

	existing, err := s.store.GetApplicationsByWorker(workerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing applications")
	}
	for _, app := range existing {
		if app.JobID == job.ID && app.Status != models.ApplicationWithdrawn {
			return nil, ErrDuplicateApplication
		}
	}

	app := models.Application{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		WorkerID:    workerID,
		CoverLetter: form.CoverLetter,
		Status:      models.ApplicationPending,
		AppliedAt:   s.now(),
	}
	if err := s.store.SaveApplication(&app); err != nil {
		return nil, errors.Wrap(err, "failed to save application")
	}

	s.logger.Infow("application submitted", "job_id", job.ID, "worker_id", workerID)
	return &app, nil
}

// Application fetches a single application. Absent IDs surface
// storage.ErrNotFound.
func (s *Service) Application(id string) (*models.Application, error) {
	return s.store.GetApplication(id)
}

// TransitionApplication moves an application to a new status. Only pending
// applications can move: the employer accepts or rejects, the worker
// withdraws, and all three outcomes are terminal.
func (s *Service) TransitionApplication(id, to string) (*models.Application, error) {
	app, err := s.store.GetApplication(id)
	if err != nil {
		return nil, err
	}

	if !allowedTransition(applicationTransitions, app.Status, to) {
		return nil, errors.Wrapf(ErrInvalidState, "cannot move application from %s to %s", app.Status, to)
	}

	app.Status = to
	if err := s.store.UpdateApplication(app); err != nil {
		return nil, err
	}

	s.logger.Infow("application status changed", "application_id", id, "status", to)
	return app, nil
}

// ApplicationsForJob lists applications made to a job.
func (s *Service) ApplicationsForJob(jobID string) ([]models.Application, error) {
	if _, err := s.store.GetJob(jobID); err != nil {
		return nil, err
	}
	return s.store.GetApplicationsByJob(jobID)
}

// ApplicationsForWorker lists a worker's applications.
func (s *Service) ApplicationsForWorker(workerID string) ([]models.Application, error) {
	return s.store.GetApplicationsByWorker(workerID)
}

// Rate records feedback the rater leaves on another user for a job. The
// job must be filled: ratings describe how a completed engagement went.
func (s *Service) Rate(raterID string, form validation.RatingForm) (*models.Rating, error) {
	if result := validation.ValidateRatingForm(form); !result.IsValid {
		return nil, &ValidationError{Result: result}
	}
	if form.RateeID == raterID {
		return nil, errors.New("you cannot rate yourself")
	}

	job, err := s.store.GetJob(form.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.StatusFilled {
		return nil, errors.Wrapf(ErrInvalidState, "job %s is not completed", job.ID)
	}

	rating := models.Rating{
		ID:        uuid.New().String(),
		JobID:     job.ID,
		RaterID:   raterID,
		RateeID:   form.RateeID,
		Score:     form.Score,
		Comment:   form.Comment,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveRating(&rating); err != nil {
		return nil, errors.Wrap(err, "failed to save rating")
	}

	s.logger.Infow("rating submitted",
		"job_id", job.ID,
		"rater_id", raterID,
		"ratee_id", form.RateeID,
		"score", form.Score,
	)
	return &rating, nil
}

// RatingsForUser lists the ratings a user has received.
func (s *Service) RatingsForUser(userID string) ([]models.Rating, error) {
	return s.store.GetRatingsByUser(userID)
}

// Related returns up to limit active jobs most similar to the given one,
// most similar first. Only jobs scoring above 0.2 are considered.
func (s *Service) Related(id string, limit int) ([]models.Job, error) {
	base, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	all, err := s.store.GetJobs()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load jobs")
	}

	type scored struct {
		job   models.Job
		score float64
	}
	var candidates []scored
	for _, job := range all {
		if job.ID == base.ID || job.Status != models.StatusActive {
			continue
		}
		if score := Similarity(*base, job); score > 0.2 {
			candidates = append(candidates, scored{job: job, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, k int) bool {
		return candidates[i].score > candidates[k].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]models.Job, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.job)
	}
	return out, nil
}

// ExpireEnded marks every active or paused job whose end date has passed as
// expired and returns how many were expired.
func (s *Service) ExpireEnded() (int, error) {
	all, err := s.store.GetJobs()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load jobs")
	}

	now := s.now()
	expired := 0
	for i := range all {
		job := all[i]
		if job.EndDate == nil || !job.EndDate.Before(now) {
			continue
		}
		if job.Status != models.StatusActive && job.Status != models.StatusPaused {
			continue
		}
		job.Status = models.StatusExpired
		if err := s.store.UpdateJob(&job); err != nil {
			return expired, errors.Wrapf(err, "failed to expire job %s", job.ID)
		}
		expired++
	}
	if expired > 0 {
		s.logger.Infow("expired ended jobs", "count", expired)
	}
	return expired, nil
}
