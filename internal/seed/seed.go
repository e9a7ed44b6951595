// Package seed provides the demo dataset used when no database is
// configured. Every call returns fresh copies, so nothing a caller does to
// the returned values can leak into another caller.
package seed

import (
	"time"

	"farmwork-hub-go/internal/models"
)

func daysFromNow(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

func endPtr(days int) *time.Time {
	t := daysFromNow(days)
	return &t
}

// Jobs returns the demo job postings.
func Jobs() []models.Job {
	return models.CloneJobs([]models.Job{
		{
			ID:            "seed-job-1",
			EmployerID:    "seed-employer-1",
			Title:         "Maize Harvest Crew",
			Description:   "Harvesting maize on a 40-acre farm near Nakuru. Work runs daily from 6am, meals provided on site.",
			Category:      models.CategoryCropFarming,
			Location:      "Nakuru, Kenya",
			Salary:        800,
			SalaryType:    models.SalaryDaily,
			JobType:       models.JobTypeSeasonal,
			StartDate:     daysFromNow(3),
			EndDate:       endPtr(24),
			WorkersNeeded: 12,
			Skills:        []string{"harvesting", "physical stamina"},
			Status:        models.StatusActive,
			IsBoosted:     true,
			CreatedAt:     time.Now().Add(-48 * time.Hour),
		},
		{
			ID:            "seed-job-2",
			EmployerID:    "seed-employer-1",
			Title:         "Dairy Farm Assistant",
			Description:   "Morning and evening milking, feeding and general care for a 60-head dairy herd outside Eldoret.",
			Category:      models.CategoryDairy,
			Location:      "Eldoret, Kenya",
			Salary:        18000,
			SalaryType:    models.SalaryMonthly,
			JobType:       models.JobTypePermanent,
			StartDate:     daysFromNow(7),
			WorkersNeeded: 2,
			Skills:        []string{"milking", "animal care"},
			Status:        models.StatusActive,
			CreatedAt:     time.Now().Add(-24 * time.Hour),
		},
		{
			ID:            "seed-job-3",
			EmployerID:    "seed-employer-2",
			Title:         "Poultry House Caretaker",
			Description:   "Daily care of a 5000-bird broiler house in Kampala: feeding, watering, cleaning and record keeping.",
			Category:      models.CategoryPoultry,
			Location:      "Kampala, Uganda",
			Salary:        350000,
			SalaryType:    models.SalaryMonthly,
			JobType:       models.JobTypePermanent,
			StartDate:     daysFromNow(5),
			WorkersNeeded: 3,
			Skills:        []string{"poultry care", "record keeping"},
			Status:        models.StatusActive,
			CreatedAt:     time.Now().Add(-72 * time.Hour),
		},
		{
			ID:            "seed-job-4",
			EmployerID:    "seed-employer-2",
			Title:         "Irrigation Technician",
			Description:   "Install and maintain drip irrigation lines for a horticulture export farm in Arusha. Prior experience with drip systems required.",
			Category:      models.CategoryIrrigation,
			Location:      "Arusha, Tanzania",
			Salary:        25000,
			SalaryType:    models.SalaryWeekly,
			JobType:       models.JobTypeContract,
			StartDate:     daysFromNow(10),
			EndDate:       endPtr(90),
			WorkersNeeded: 4,
			Skills:        []string{"drip irrigation", "plumbing"},
			Status:        models.StatusActive,
			CreatedAt:     time.Now().Add(-12 * time.Hour),
		},
		{
			ID:            "seed-job-5",
			EmployerID:    "seed-employer-1",
			Title:         "Tomato Picking - Piece Rate",
			Description:   "Greenhouse tomato picking paid per crate. Fast pickers earn well; crates weighed and logged twice daily.",
			Category:      models.CategoryHorticulture,
			Location:      "Naivasha, Kenya",
			Salary:        50,
			SalaryType:    models.SalaryPieceRate,
			JobType:       models.JobTypeTemporary,
			StartDate:     daysFromNow(1),
			EndDate:       endPtr(14),
			WorkersNeeded: 20,
			Skills:        []string{"picking", "greenhouse work"},
			Status:        models.StatusActive,
			IsBoosted:     true,
			CreatedAt:     time.Now().Add(-6 * time.Hour),
		},
		{
			ID:            "seed-job-6",
			EmployerID:    "seed-employer-3",
			Title:         "Fish Pond Attendant",
			Description:   "Feeding, water quality checks and harvest support for a tilapia farm near Kisumu. Training provided for the right candidate.",
			Category:      models.CategoryAquaculture,
			Location:      "Kisumu, Kenya",
			Salary:        15000,
			SalaryType:    models.SalaryMonthly,
			JobType:       models.JobTypePermanent,
			StartDate:     daysFromNow(14),
			WorkersNeeded: 1,
			Skills:        []string{"aquaculture"},
			Status:        models.StatusDraft,
			CreatedAt:     time.Now().Add(-2 * time.Hour),
		},
	})
}

// DemoAccount is a seeded login for demo mode.
type DemoAccount struct {
	User     models.User
	Password string
}

// Accounts returns the demo users with their passwords.
func Accounts() []DemoAccount {
	return []DemoAccount{
		{
			User: models.User{
				ID:        "seed-employer-1",
				Email:     "wanjiku@greenvalleyfarm.co.ke",
				FirstName: "Wanjiku",
				LastName:  "Kamau",
				Phone:     "+254712345678",
				Role:      models.RoleEmployer,
				Location:  "Nakuru, Kenya",
				Bio:       "Owner of Green Valley Farm, mixed crop and dairy.",
				CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
			},
			Password: "GreenValley1",
		},
		{
			User: models.User{
				ID:        "seed-worker-1",
				Email:     "okello@example.com",
				FirstName: "James",
				LastName:  "Okello",
				Phone:     "+256701234567",
				Role:      models.RoleWorker,
				Location:  "Kampala, Uganda",
				Bio:       "Experienced farm hand, dairy and poultry.",
				CreatedAt: time.Now().Add(-20 * 24 * time.Hour),
			},
			Password: "WorkHard99",
		},
	}
}
