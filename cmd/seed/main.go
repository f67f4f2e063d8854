// Command seed populates the database with demo accounts and services for
// local development. It refuses to run against a production environment.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"github.com/conectando/booking-backend/internal/config"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Environment == "production" {
		logger.Fatal("Refusing to seed a production environment")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	accountRepo := database.NewAccountRepository(db)
	serviceRepo := database.NewServiceRepository(db)

	logger.Info("Seeding demo accounts...")

	user := seedAccount(logger, accountRepo, cfg, &models.Account{
		Email: "maria@example.com",
		Name:  "Maria Souza",
		Phone: strPtr("(22) 22222-2222"),
		Role:  models.RoleUser,
	}, "password123")

	organizer := seedAccount(logger, accountRepo, cfg, &models.Account{
		Email: "carlos@example.com",
		Name:  "Carlos Lima",
		Phone: strPtr("(11) 98765-4321"),
		Role:  models.RoleOrganizer,
	}, "password456")

	logger.Info("Seeding demo services...")

	seedServices := []models.Service{
		{
			Name:             "Community Haircuts",
			Category:         "Beauty",
			Description:      "Free haircuts for people in vulnerable situations",
			Location:         "Location not specified",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1599351431202-1e0f0137899a?w=400"),
			AvailabilityDays: models.StringArray{"Monday", "Wednesday", "Friday"},
			TimeSlots:        models.StringArray{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"},
		},
		{
			Name:             "Dental Checkups",
			Category:         "Health",
			Description:      "Free dental consultations and basic treatments",
			Location:         "Location not specified",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1588776814546-1ffcf47267a5?w=400"),
			AvailabilityDays: models.StringArray{"Tuesday", "Thursday"},
			TimeSlots:        models.StringArray{"08:00", "09:00", "10:00", "13:00", "14:00", "15:00"},
		},
		{
			Name:             "Computer Literacy Classes",
			Category:         "Education",
			Description:      "Basic computer classes and digital inclusion",
			Location:         "Community Center",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=400"),
			AvailabilityDays: models.StringArray{"Monday", "Wednesday"},
			TimeSlots:        models.StringArray{"10:00", "14:00", "16:00"},
		},
		{
			Name:             "Food Distribution",
			Category:         "Social Assistance",
			Description:      "Distribution of food baskets for families in need",
			Location:         "Central Square",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1488521787991-ed7bbaae773c?w=400"),
			AvailabilityDays: models.StringArray{"Saturday"},
			TimeSlots:        models.StringArray{"09:00", "10:00", "11:00"},
		},
		{
			Name:             "Legal Counseling",
			Category:         "Legal",
			Description:      "Free legal guidance for everyday matters",
			Location:         "Community Office",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1589829545856-d10d557cf95f?w=400"),
			AvailabilityDays: models.StringArray{"Friday"},
			TimeSlots:        models.StringArray{"09:00", "10:00", "11:00", "14:00", "15:00"},
		},
		{
			Name:             "Psychological Support",
			Category:         "Health",
			Description:      "Free individual psychological counseling",
			Location:         "Social Clinic",
			PhotoURL:         strPtr("https://images.unsplash.com/photo-1573497019940-1c28c88b4f3e?w=400"),
			AvailabilityDays: models.StringArray{"Tuesday", "Thursday"},
			TimeSlots:        models.StringArray{"09:00", "10:00", "11:00", "14:00", "15:00"},
		},
	}

	for i := range seedServices {
		service := &seedServices[i]
		service.OrganizerID = organizer.ID
		service.Active = true

		if err := serviceRepo.Create(service); err != nil {
			logger.WithError(err).Fatalf("Failed to seed service %q", service.Name)
		}
		logger.WithField("service", service.Name).Info("Service seeded")
	}

	logger.Info("Seed completed")
	logger.Infof("Demo user: %s / password123", user.Email)
	logger.Infof("Demo organizer: %s / password456", organizer.Email)
}

func seedAccount(logger *logrus.Logger, repo *database.AccountRepository, cfg *config.Config, account *models.Account, password string) *models.Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)
	if err != nil {
		logger.Fatalf("Failed to hash password: %v", err)
	}

	account.PasswordHash = string(hash)
	account.Status = models.AccountStatusActive

	if err := repo.Create(account); err != nil {
		logger.WithError(err).Fatalf("Failed to seed account %s", account.Email)
	}

	logger.WithFields(logrus.Fields{
		"email": account.Email,
		"role":  account.Role,
	}).Info("Account seeded")

	return account
}

func strPtr(s string) *string {
	return &s
}
