package storage

import (
	"github.com/cockroachdb/errors"

	"farmwork-hub-go/internal/models"
)

// ErrNotFound is returned when a job or application does not exist. Check
// with errors.Is.
var ErrNotFound = errors.New("not found")

// Store persists the job board's records.
type Store interface {
	SaveJob(job *models.Job) error
	SaveJobs(jobs []models.Job) error // batch insert for seeding
	GetJob(id string) (*models.Job, error)
	GetJobs() ([]models.Job, error)
	UpdateJob(job *models.Job) error

	SaveApplication(app *models.Application) error
	GetApplication(id string) (*models.Application, error)
	GetApplicationsByJob(jobID string) ([]models.Application, error)
	GetApplicationsByWorker(workerID string) ([]models.Application, error)
	UpdateApplication(app *models.Application) error

	SaveRating(rating *models.Rating) error
	GetRatingsByUser(userID string) ([]models.Rating, error)
}
