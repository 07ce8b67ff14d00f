package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, the permission-module catalog, and sample users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"employee_permissions", "news_articles", "users", "employees", "departments", "companies"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedRoles(db)
		seedPermissionModules(db)
		companyID := seedCompany(db)
		seedUsers(db, cfg.Security.BCryptCost, companyID)
		seedDefaultGrants(db)

		fmt.Println("Seeding complete")
	},
}

func seedRoles(db *gorm.DB) {
	roles := []struct {
		Name        string
		DisplayName string
		Desc        string
	}{
		{"admin", "Administrator", "Full access to every portal"},
		{"editor", "Editor", "Can manage portal content"},
		{"employee", "Employee", "Internal portal access"},
		{"user", "User", "Public site account"},
	}

	for _, r := range roles {
		var id int64
		row := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row()
		if err := row.Scan(&id); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO roles (name, display_name, description, is_active) VALUES (?, ?, ?, true)",
			r.Name, r.DisplayName, r.Desc).Error; err != nil {
			log.Fatalf("failed to insert role %s: %v", r.Name, err)
		}
		fmt.Println("Seeded role:", r.Name)
	}
}

func seedPermissionModules(db *gorm.DB) {
	modules := []string{"employees", "documents", "projects", "news"}
	actions := []string{"view", "create", "edit", "delete"}

	for _, m := range modules {
		for _, a := range actions {
			var id int64
			row := db.Raw("SELECT id FROM permission_modules WHERE module_name = ? AND permission_type = ?", m, a).Row()
			if err := row.Scan(&id); err == nil {
				continue
			}
			desc := fmt.Sprintf("Can %s %s", a, m)
			if err := db.Exec("INSERT INTO permission_modules (module_name, permission_type, description, is_active) VALUES (?, ?, ?, true)",
				m, a, desc).Error; err != nil {
				log.Fatalf("failed to insert permission module %s.%s: %v", m, a, err)
			}
		}
	}
	fmt.Println("Seeded permission module catalog")
}

func seedCompany(db *gorm.DB) int64 {
	var companyID int64
	row := db.Raw("SELECT id FROM companies WHERE name = ?", "Minh Viet Trading").Row()
	if err := row.Scan(&companyID); err != nil {
		if err := db.Exec("INSERT INTO companies (name, address, created_at) VALUES (?, ?, now())",
			"Minh Viet Trading", "12 Nguyen Hue, District 1, Ho Chi Minh City").Error; err != nil {
			log.Fatalf("failed to insert company: %v", err)
		}
		if err := db.Raw("SELECT id FROM companies WHERE name = ?", "Minh Viet Trading").Row().Scan(&companyID); err != nil {
			log.Fatalf("failed to look up company: %v", err)
		}
		if err := db.Exec("INSERT INTO departments (company_id, name, created_at) VALUES (?, ?, now())",
			companyID, "Human Resources").Error; err != nil {
			log.Fatalf("failed to insert department: %v", err)
		}
		fmt.Println("Seeded company and department")
	}
	return companyID
}

func seedUsers(db *gorm.DB, bcryptCost int, companyID int64) {
	password := "password"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)

	users := []struct {
		Username string
		Email    string
		Role     string
		Name     string
		Position string
	}{
		{"admin", "admin@minhviet.vn", "admin", "Tran Quoc Anh", "Director"},
		{"editor", "editor@minhviet.vn", "editor", "Le Thi Hoa", "Content Editor"},
		{"nhanvien", "nhanvien@minhviet.vn", "employee", "Pham Van Nam", "Accountant"},
	}

	for _, u := range users {
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE username = ?", u.Username).Row().Scan(&exists); err == nil {
			fmt.Printf("user %s already exists; skipping\n", u.Username)
			continue
		}

		var employeeID int64
		if err := db.Raw("SELECT id FROM employees WHERE email = ?", u.Email).Row().Scan(&employeeID); err != nil {
			if err := db.Exec("INSERT INTO employees (name, email, company_id, position, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'active', now(), now())",
				u.Name, u.Email, companyID, u.Position).Error; err != nil {
				log.Fatalf("failed to insert employee for %s: %v", u.Username, err)
			}
			if err := db.Raw("SELECT id FROM employees WHERE email = ?", u.Email).Row().Scan(&employeeID); err != nil {
				log.Fatalf("failed to look up employee for %s: %v", u.Username, err)
			}
		}

		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.Role).Row().Scan(&roleID); err != nil {
			log.Fatalf("role %s not found: %v", u.Role, err)
		}

		if err := db.Exec("INSERT INTO users (username, password_hash, email, role, role_id, employee_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
			u.Username, string(hash), u.Email, u.Role, roleID, employeeID).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", u.Username, err)
		}
		fmt.Println("Seeded user:", u.Username)
	}
}

// seedDefaultGrants mirrors the setup-defaults endpoint: admins get explicit
// granted rows for every catalog entry, on top of the resolver short-circuit.
func seedDefaultGrants(db *gorm.DB) {
	rows, err := db.Raw(`
		SELECT u.employee_id FROM users u
		LEFT JOIN roles ro ON ro.id = u.role_id
		WHERE u.employee_id IS NOT NULL AND u.is_active = true
		  AND (u.role = 'admin' OR ro.name = 'admin')`).Rows()
	if err != nil {
		log.Fatalf("failed to list admin employees: %v", err)
	}
	defer rows.Close()

	var adminIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Fatalf("failed to scan admin employee id: %v", err)
		}
		adminIDs = append(adminIDs, id)
	}

	modRows, err := db.Raw("SELECT module_name, permission_type FROM permission_modules WHERE is_active = true").Rows()
	if err != nil {
		log.Fatalf("failed to list permission modules: %v", err)
	}
	defer modRows.Close()

	type pair struct{ Module, Action string }
	var pairs []pair
	for modRows.Next() {
		var p pair
		if err := modRows.Scan(&p.Module, &p.Action); err != nil {
			log.Fatalf("failed to scan permission module: %v", err)
		}
		pairs = append(pairs, p)
	}

	for _, employeeID := range adminIDs {
		for _, p := range pairs {
			var exists int
			if err := db.Raw("SELECT 1 FROM employee_permissions WHERE employee_id = ? AND module_name = ? AND permission_type = ?",
				employeeID, p.Module, p.Action).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO employee_permissions (employee_id, module_name, permission_type, granted, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				employeeID, p.Module, p.Action).Error; err != nil {
				log.Fatalf("failed to grant %s.%s: %v", p.Module, p.Action, err)
			}
		}
	}
	if len(adminIDs) > 0 {
		fmt.Println("Granted default permissions to admin employees")
	}
}
