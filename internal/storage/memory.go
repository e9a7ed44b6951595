package storage

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"farmwork-hub-go/internal/models"
)

// MemoryStore is an in-process Store with copy-on-write semantics: every
// record is copied on the way in and on the way out, so callers and tests
// can mutate what they hold without bleeding into the store.
type MemoryStore struct {
	mu           sync.RWMutex
	jobs         map[string]models.Job
	jobOrder     []string // preserves insertion order for deterministic listings
	applications map[string]models.Application
	appOrder     []string
	ratings      []models.Rating
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:         make(map[string]models.Job),
		applications: make(map[string]models.Application),
	}
}

func (s *MemoryStore) SaveJob(job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if _, exists := s.jobs[job.ID]; !exists {
		s.jobOrder = append(s.jobOrder, job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *MemoryStore) SaveJobs(jobs []models.Job) error {
	for i := range jobs {
		if err := s.SaveJob(&jobs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) GetJob(id string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "job %s", id)
	}
	out := job.Clone()
	return &out, nil
}

func (s *MemoryStore) GetJobs() ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Job, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		out = append(out, s.jobs[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) UpdateJob(job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return errors.Wrapf(ErrNotFound, "job %s", job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *MemoryStore) SaveApplication(app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}
	app.UpdatedAt = app.AppliedAt
	if _, exists := s.applications[app.ID]; !exists {
		s.appOrder = append(s.appOrder, app.ID)
	}
	s.applications[app.ID] = *app
	return nil
}

func (s *MemoryStore) GetApplication(id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "application %s", id)
	}
	return &app, nil
}

func (s *MemoryStore) GetApplicationsByJob(jobID string) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Application
	for _, id := range s.appOrder {
		if app := s.applications[id]; app.JobID == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetApplicationsByWorker(workerID string) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Application
	for _, id := range s.appOrder {
		if app := s.applications[id]; app.WorkerID == workerID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateApplication(app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[app.ID]; !ok {
		return errors.Wrapf(ErrNotFound, "application %s", app.ID)
	}
	app.UpdatedAt = time.Now()
	s.applications[app.ID] = *app
	return nil
}

func (s *MemoryStore) SaveRating(rating *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	s.ratings = append(s.ratings, *rating)
	return nil
}

func (s *MemoryStore) GetRatingsByUser(userID string) ([]models.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Rating
	for _, r := range s.ratings {
		if r.RateeID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}
