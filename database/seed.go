package database

import (
	"fmt"
	"log"
	"os"

	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// RunSeeds runs all seed functions against db
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedColleges(); err != nil {
		return fmt.Errorf("failed to seed colleges: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	// Get admin credentials from environment variables
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	adminPhone := os.Getenv("ADMIN_PHONE")
	if adminPhone == "" {
		adminPhone = "0000000000"
	}

	// Hash password
	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Username:     "admin",
		Email:        adminEmail,
		Phone:        adminPhone,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", adminEmail)
	return nil
}

// SeedColleges creates the reference colleges with their branches
func (s *Seeder) SeedColleges() error {
	var count int64
	if err := s.db.Model(&model.College{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Colleges already exist, skipping...")
		return nil
	}

	colleges := []struct {
		college  model.College
		branches []string
	}{
		{
			college: model.College{
				Name:    "Government PU College",
				Type:    model.CollegeTypePUC,
				Address: "Mysore, Karnataka",
			},
			branches: []string{"Science (PCMB)", "Science (PCMC)", "Commerce", "Arts"},
		},
		{
			college: model.College{
				Name:    "Government ITI Mysore",
				Type:    model.CollegeTypeITI,
				Address: "Bannimantap, Mysore",
			},
			branches: []string{"Electrician", "Fitter", "Welder", "COPA"},
		},
		{
			college: model.College{
				Name:    "National Institute of Engineering",
				Type:    model.CollegeTypeEngineering,
				Address: "Mananthavadi Road, Mysore",
			},
			branches: []string{"Computer Science", "Electronics", "Mechanical", "Civil"},
		},
		{
			college: model.College{
				Name:    "Government Polytechnic Mysore",
				Type:    model.CollegeTypeDiploma,
				Address: "Siddartha Nagar, Mysore",
			},
			branches: []string{"Automobile", "Electrical", "Computer Science"},
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range colleges {
			college := entry.college
			if err := tx.Create(&college).Error; err != nil {
				return err
			}
			for _, name := range entry.branches {
				branch := model.Branch{CollegeID: college.ID, Name: name}
				if err := tx.Create(&branch).Error; err != nil {
					return err
				}
			}
			log.Printf("✅ Seeded college %q with %d branches", college.Name, len(entry.branches))
		}
		return nil
	})
}
