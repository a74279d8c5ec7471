package config

import (
	"log"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/pkg/password"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Each seeder is idempotent so Run is safe
// to call on every startup.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedMenus(); err != nil {
		return err
	}
	if err := s.seedRoleMenus(); err != nil {
		return err
	}
	if err := s.seedLoanProducts(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedRoles() error {
	roles := []models.Role{
		{Name: string(domain.RoleAdmin), Description: "Full system access"},
		{Name: string(domain.RoleMarketing), Description: "Reviews incoming applications"},
		{Name: string(domain.RoleBranchManager), Description: "Approves or rejects applications"},
		{Name: string(domain.RoleBackOffice), Description: "Disburses approved applications"},
		{Name: string(domain.RoleUser), Description: "Loan applicant"},
	}

	for i := range roles {
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&roles[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedMenus() error {
	menus := []models.Menu{
		{Code: "LOAN_QUEUE", Name: "Antrian Pengajuan", Category: "LOAN", URLPattern: "/api/v1/loans/queue", IsActive: true},
		{Code: "LOAN_ACTIONS", Name: "Aksi Pengajuan", Category: "LOAN", URLPattern: "/api/v1/loans/*/actions", IsActive: true},
		{Code: "ACTIVITY_REPORT", Name: "Laporan Aktivitas", Category: "REPORT", URLPattern: "/api/v1/loans/reports/**", IsActive: true},
		{Code: "PRODUCT_ADMIN", Name: "Kelola Produk", Category: "MASTER", URLPattern: "", IsActive: true},
		{Code: "DASHBOARD", Name: "Dashboard", Category: "GENERAL", URLPattern: "", IsActive: true},
	}

	for i := range menus {
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&menus[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedRoleMenus grants the path-gated menus to the staff roles that
// work those screens.
func (s *Seeder) seedRoleMenus() error {
	grants := map[string][]string{
		string(domain.RoleMarketing):     {"LOAN_QUEUE", "LOAN_ACTIONS", "ACTIVITY_REPORT", "DASHBOARD"},
		string(domain.RoleBranchManager): {"LOAN_QUEUE", "LOAN_ACTIONS", "ACTIVITY_REPORT", "DASHBOARD"},
		string(domain.RoleBackOffice):    {"LOAN_QUEUE", "LOAN_ACTIONS", "ACTIVITY_REPORT", "DASHBOARD"},
	}

	for roleName, menuCodes := range grants {
		var role models.Role
		if err := s.db.Where("name = ?", roleName).First(&role).Error; err != nil {
			return err
		}
		for _, code := range menuCodes {
			var menu models.Menu
			if err := s.db.Where("code = ?", code).First(&menu).Error; err != nil {
				return err
			}
			grant := models.RoleMenu{RoleID: role.ID, MenuID: menu.ID}
			if err := s.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "role_id"}, {Name: "menu_id"}},
				DoNothing: true,
			}).Create(&grant).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedLoanProducts() error {
	products := []models.LoanProduct{
		{
			Code:            "KTA-REG",
			Name:            "Kredit Tanpa Agunan Reguler",
			Description:     "Pinjaman tanpa agunan untuk kebutuhan umum",
			MinAmount:       1_000_000,
			MaxAmount:       50_000_000,
			InterestRate:    12.0,
			MaxTenureMonths: 36,
			IsActive:        true,
		},
		{
			Code:            "KTA-MIKRO",
			Name:            "Kredit Mikro",
			Description:     "Pinjaman mikro untuk usaha kecil",
			MinAmount:       500_000,
			MaxAmount:       10_000_000,
			InterestRate:    9.5,
			MaxTenureMonths: 12,
			IsActive:        true,
		},
	}

	for i := range products {
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@loanflow.co.id",
		FullName: "System Administrator",
		Password: hashedPassword,
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	var adminRole models.Role
	if err := s.db.Where("name = ?", domain.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}
	if err := s.db.Model(admin).Association("Roles").Append(&adminRole); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
