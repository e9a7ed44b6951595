package jobs

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/internal/storage"
	"farmwork-hub-go/internal/validation"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc, err := NewService(store, zap.NewNop().Sugar())
	require.NoError(t, err)
	return svc, store
}

func postingForm() validation.JobPostingForm {
	start := time.Now().AddDate(0, 0, 7)
	description := ""
	for len(description) < 60 {
		description += "maize harvest "
	}
	return validation.JobPostingForm{
		Title:         "Maize Harvest Crew",
		Description:   description,
		Category:      models.CategoryCropFarming,
		Location:      "Nakuru, Kenya",
		Salary:        800,
		SalaryType:    models.SalaryDaily,
		JobType:       models.JobTypeSeasonal,
		StartDate:     start,
		WorkersNeeded: 12,
		Skills:        []string{"harvesting"},
	}
}

func TestPostValidJob(t *testing.T) {
	svc, _ := newTestService(t)

	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "emp-1", job.EmployerID)
	assert.Equal(t, models.StatusActive, job.Status)

	fetched, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, fetched.Title)
}

func TestPostDraftByDefault(t *testing.T) {
	svc, _ := newTestService(t)

	job, err := svc.Post("emp-1", postingForm(), false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, job.Status)
}

func TestPostInvalidFormReturnsValidationError(t *testing.T) {
	svc, _ := newTestService(t)

	form := postingForm()
	form.Title = ""
	form.WorkersNeeded = 0

	_, err := svc.Post("emp-1", form, true)
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, vErr.Result.Errors, "Job title is required")
	assert.Contains(t, vErr.Result.Errors, "At least one worker is required")
}

func TestPostStripsHTMLFromDescription(t *testing.T) {
	svc, _ := newTestService(t)

	form := postingForm()
	form.Description = "<p>Harvesting <b>maize</b> on a 40-acre farm near Nakuru, meals provided.</p>"

	job, err := svc.Post("emp-1", form, true)
	require.NoError(t, err)
	assert.Equal(t, "Harvesting maize on a 40-acre farm near Nakuru, meals provided.", job.Description)
}

func TestPostDuplicateRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	_, err = svc.Post("emp-1", postingForm(), true)
	assert.True(t, errors.Is(err, ErrDuplicatePosting))

	// A different employer posting the same job is not a duplicate.
	_, err = svc.Post("emp-2", postingForm(), true)
	assert.NoError(t, err)
}

func TestDedupSeededFromExistingJobs(t *testing.T) {
	store := storage.NewMemoryStore()
	form := postingForm()
	require.NoError(t, store.SaveJob(&models.Job{
		Title:      form.Title,
		EmployerID: "emp-1",
		Location:   form.Location,
		Status:     models.StatusActive,
	}))

	svc, err := NewService(store, zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = svc.Post("emp-1", form, true)
	assert.True(t, errors.Is(err, ErrDuplicatePosting))
}

func TestGetMissingJob(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get("no-such-id")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), false)
	require.NoError(t, err)

	updated, err := svc.Transition(job.ID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)

	updated, err = svc.Transition(job.ID, models.StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, updated.Status)

	updated, err = svc.Transition(job.ID, models.StatusActive)
	require.NoError(t, err)

	updated, err = svc.Transition(job.ID, models.StatusFilled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFilled, updated.Status)

	// Filled is terminal.
	_, err = svc.Transition(job.ID, models.StatusActive)
	assert.Error(t, err)
}

func TestInvalidTransitionRejected(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), false)
	require.NoError(t, err)

	// Draft cannot jump straight to filled.
	_, err = svc.Transition(job.ID, models.StatusFilled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move job")
}

func TestCancelledJobCanBeReposted(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	_, err = svc.Transition(job.ID, models.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Post("emp-1", postingForm(), true)
	assert.NoError(t, err, "cancelling should free the posting for a re-post")
}

func TestApply(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	app, err := svc.Apply("worker-1", validation.JobApplicationForm{
		JobID:       job.ID,
		CoverLetter: "I have three seasons of harvest experience.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, job.ID, app.JobID)

	apps, err := svc.ApplicationsForJob(job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)

	apps, err = svc.ApplicationsForWorker("worker-1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
}

func TestApplyTwiceRejected(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	_, err = svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	require.NoError(t, err)

	_, err = svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	assert.True(t, errors.Is(err, ErrDuplicateApplication))
}

func TestApplyToInactiveJobRejected(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), false) // draft
	require.NoError(t, err)

	_, err = svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accepting applications")
}

func TestApplyToMissingJob(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Apply("worker-1", validation.JobApplicationForm{JobID: "ghost"})
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestApplicationDecision(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	app, err := svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	require.NoError(t, err)

	updated, err := svc.TransitionApplication(app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, updated.Status)

	stored, err := svc.Application(app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, stored.Status)

	// Accepted is terminal.
	_, err = svc.TransitionApplication(app.ID, models.ApplicationRejected)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestApplicationRejection(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	app, err := svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	require.NoError(t, err)

	updated, err := svc.TransitionApplication(app.ID, models.ApplicationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, updated.Status)
}

func TestWithdrawnApplicationAllowsReapply(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	app, err := svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	require.NoError(t, err)

	_, err = svc.TransitionApplication(app.ID, models.ApplicationWithdrawn)
	require.NoError(t, err)

	_, err = svc.Apply("worker-1", validation.JobApplicationForm{JobID: job.ID})
	assert.NoError(t, err, "withdrawing frees the worker to apply again")
}

func TestTransitionMissingApplication(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TransitionApplication("ghost", models.ApplicationAccepted)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func filledJob(t *testing.T, svc *Service) *models.Job {
	t.Helper()
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)
	job, err = svc.Transition(job.ID, models.StatusFilled)
	require.NoError(t, err)
	return job
}

func TestRate(t *testing.T) {
	svc, _ := newTestService(t)
	job := filledJob(t, svc)

	rating, err := svc.Rate("emp-1", validation.RatingForm{
		JobID:   job.ID,
		RateeID: "worker-1",
		Score:   5,
		Comment: "Reliable and fast, would hire again.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rating.ID)
	assert.Equal(t, 5, rating.Score)

	// Ratings flow both directions.
	_, err = svc.Rate("worker-1", validation.RatingForm{JobID: job.ID, RateeID: "emp-1", Score: 4})
	require.NoError(t, err)

	received, err := svc.RatingsForUser("worker-1")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "emp-1", received[0].RaterID)
}

func TestRateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	job := filledJob(t, svc)

	_, err := svc.Rate("emp-1", validation.RatingForm{JobID: job.ID, RateeID: "worker-1", Score: 6})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Result.Errors, "Score must be between 1 and 5")
}

func TestRateRequiresFilledJob(t *testing.T) {
	svc, _ := newTestService(t)
	job, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	_, err = svc.Rate("emp-1", validation.RatingForm{JobID: job.ID, RateeID: "worker-1", Score: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestRateSelfRejected(t *testing.T) {
	svc, _ := newTestService(t)
	job := filledJob(t, svc)

	_, err := svc.Rate("emp-1", validation.RatingForm{JobID: job.ID, RateeID: "emp-1", Score: 5})
	assert.Error(t, err)
}

func TestQueryUsesStoredJobs(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Post("emp-1", postingForm(), true)
	require.NoError(t, err)

	result, err := svc.Query(models.FilterSpec{Search: "maize"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)

	result, err = svc.Query(models.FilterSpec{Search: "helicopter"})
	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
}

func TestExpireEnded(t *testing.T) {
	svc, store := newTestService(t)

	past := time.Now().AddDate(0, 0, -1)
	future := time.Now().AddDate(0, 0, 30)
	require.NoError(t, store.SaveJobs([]models.Job{
		{ID: "ended", Status: models.StatusActive, EndDate: &past},
		{ID: "paused-ended", Status: models.StatusPaused, EndDate: &past},
		{ID: "running", Status: models.StatusActive, EndDate: &future},
		{ID: "open-ended", Status: models.StatusActive},
		{ID: "already-filled", Status: models.StatusFilled, EndDate: &past},
	}))

	count, err := svc.ExpireEnded()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	job, err := store.GetJob("ended")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, job.Status)

	job, err = store.GetJob("running")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, job.Status)

	job, err = store.GetJob("already-filled")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFilled, job.Status)
}

func TestRelated(t *testing.T) {
	svc, store := newTestService(t)
	require.NoError(t, store.SaveJobs([]models.Job{
		{ID: "base", Title: "Maize Harvest Crew", Category: models.CategoryCropFarming, Location: "Nakuru, Kenya", Status: models.StatusActive},
		{ID: "close", Title: "Maize Harvest Helpers", Category: models.CategoryCropFarming, Location: "Nakuru, Kenya", Status: models.StatusActive},
		{ID: "same-cat", Title: "Wheat Planting", Category: models.CategoryCropFarming, Location: "Eldoret, Kenya", Status: models.StatusActive},
		{ID: "unrelated", Title: "Fish Pond Attendant", Category: models.CategoryAquaculture, Location: "Kisumu, Kenya", Status: models.StatusActive},
		{ID: "inactive-twin", Title: "Maize Harvest Crew", Category: models.CategoryCropFarming, Location: "Nakuru, Kenya", Status: models.StatusExpired},
	}))

	related, err := svc.Related("base", 5)
	require.NoError(t, err)
	require.NotEmpty(t, related)
	assert.Equal(t, "close", related[0].ID, "the most similar active job comes first")
	for _, job := range related {
		assert.NotEqual(t, "base", job.ID)
		assert.NotEqual(t, "inactive-twin", job.ID)
		assert.Equal(t, models.StatusActive, job.Status)
	}
}

func TestSimilarityBounds(t *testing.T) {
	a := models.Job{Title: "Maize Harvest Crew", Category: models.CategoryCropFarming, Location: "Nakuru"}
	assert.InDelta(t, 1.0, Similarity(a, a), 0.0001)

	b := models.Job{Title: "Fish Pond Attendant", Category: models.CategoryAquaculture, Location: "Kisumu"}
	sim := Similarity(a, b)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.Less(t, sim, 0.3)
}
