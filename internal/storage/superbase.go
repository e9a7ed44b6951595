package storage

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	supabase "github.com/nedpals/supabase-go"

	"farmwork-hub-go/internal/models"
)

// SupabaseStore uses the nedpals/supabase-go SDK to persist the board's
// records in the hosted Postgres.
type SupabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore creates a SupabaseStore. It reads SUPABASE_URL and
// SUPABASE_KEY from environment variables if empty values are provided.
func NewSupabaseStore(supabaseURL, supabaseKey string) (*SupabaseStore, error) {
	if supabaseURL == "" {
		supabaseURL = os.Getenv("SUPABASE_URL")
	}
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_KEY")
	}
	if supabaseURL == "" || supabaseKey == "" {
		return nil, errors.New("supabase URL and key must be provided via args or SUPABASE_URL / SUPABASE_KEY env vars")
	}

	client := supabase.CreateClient(supabaseURL, supabaseKey)
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) SaveJob(job *models.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	var results []models.Job
	err := s.client.DB.From("jobs").Insert(*job).Execute(&results)
	return errors.Wrap(err, "failed to insert job")
}

// SaveJobs inserts multiple jobs in a single batch, used for seeding.
func (s *SupabaseStore) SaveJobs(jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	now := time.Now()
	for i := range jobs {
		if jobs[i].CreatedAt.IsZero() {
			jobs[i].CreatedAt = now
		}
	}

	var results []models.Job
	err := s.client.DB.From("jobs").Insert(jobs).Execute(&results)
	return errors.Wrap(err, "failed to batch insert jobs")
}

func (s *SupabaseStore) GetJob(id string) (*models.Job, error) {
	var res []models.Job
	err := s.client.DB.From("jobs").Select("*").Eq("id", id).Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch job")
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "job %s", id)
	}
	job := res[0]
	return &job, nil
}

func (s *SupabaseStore) GetJobs() ([]models.Job, error) {
	var res []models.Job
	err := s.client.DB.From("jobs").Select("*").Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch jobs")
	}
	return res, nil
}

func (s *SupabaseStore) UpdateJob(job *models.Job) error {
	var results []models.Job
	err := s.client.DB.From("jobs").Update(*job).Eq("id", job.ID).Execute(&results)
	return errors.Wrapf(err, "failed to update job %s", job.ID)
}

func (s *SupabaseStore) SaveApplication(app *models.Application) error {
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}
	app.UpdatedAt = app.AppliedAt

	var results []models.Application
	err := s.client.DB.From("applications").Insert(*app).Execute(&results)
	return errors.Wrap(err, "failed to insert application")
}

func (s *SupabaseStore) GetApplication(id string) (*models.Application, error) {
	var res []models.Application
	err := s.client.DB.From("applications").Select("*").Eq("id", id).Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch application")
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "application %s", id)
	}
	app := res[0]
	return &app, nil
}

func (s *SupabaseStore) GetApplicationsByJob(jobID string) ([]models.Application, error) {
	var res []models.Application
	err := s.client.DB.From("applications").Select("*").Eq("job_id", jobID).Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch applications by job")
	}
	return res, nil
}

func (s *SupabaseStore) GetApplicationsByWorker(workerID string) ([]models.Application, error) {
	var res []models.Application
	err := s.client.DB.From("applications").Select("*").Eq("worker_id", workerID).Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch applications by worker")
	}
	return res, nil
}

func (s *SupabaseStore) UpdateApplication(app *models.Application) error {
	app.UpdatedAt = time.Now()
	var results []models.Application
	err := s.client.DB.From("applications").Update(*app).Eq("id", app.ID).Execute(&results)
	return errors.Wrapf(err, "failed to update application %s", app.ID)
}

func (s *SupabaseStore) SaveRating(rating *models.Rating) error {
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	var results []models.Rating
	err := s.client.DB.From("ratings").Insert(*rating).Execute(&results)
	return errors.Wrap(err, "failed to insert rating")
}

func (s *SupabaseStore) GetRatingsByUser(userID string) ([]models.Rating, error) {
	var res []models.Rating
	err := s.client.DB.From("ratings").Select("*").Eq("ratee_id", userID).Execute(&res)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch ratings")
	}
	return res, nil
}
