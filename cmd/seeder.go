package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo tenant, users for every role, and starter permission grants.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"confidential_access_grants", "permission_grants", "documents", "employees", "users", "tenants"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		var tenantID int64
		row := db.Raw("SELECT id FROM tenants WHERE name = ?", "Acme Corp").Row()
		if err := row.Scan(&tenantID); err != nil {
			if err := db.Exec("INSERT INTO tenants (name, is_active, created_at, updated_at) VALUES (?, true, now(), now())", "Acme Corp").Error; err != nil {
				log.Fatalf("failed to insert tenant: %v", err)
			}
			if err := db.Raw("SELECT id FROM tenants WHERE name = ?", "Acme Corp").Row().Scan(&tenantID); err != nil {
				log.Fatalf("failed to read back tenant: %v", err)
			}
			fmt.Println("Seeded tenant: Acme Corp")
		}

		users := []struct {
			username string
			email    string
			name     string
			role     string
		}{
			{"dina", "dina@acme.example", "Dina", "user"},
			{"bagus", "bagus@acme.example", "Bagus", "manager"},
			{"sri", "sri@acme.example", "Sri", "admin"},
			{"root", "root@acme.example", "Root", "superadmin"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE tenant_id = ? AND username = ?", tenantID, u.username).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists\n", u.username)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (tenant_id, username, email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				tenantID, u.username, u.email, u.name, string(hash), u.role,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.username, err)
			}
			fmt.Printf("Seeded user %s (%s)\n", u.username, u.role)
		}

		grants := []struct {
			username string
			area     string
			view     bool
			edit     bool
			del      bool
		}{
			{"dina", "documents", true, false, false},
			{"dina", "hr", true, false, false},
			{"bagus", "documents", true, true, false},
			{"bagus", "finance", true, true, false},
			{"bagus", "hr", true, false, false},
		}

		for _, g := range grants {
			var userID int64
			if err := db.Raw("SELECT id FROM users WHERE tenant_id = ? AND username = ?", tenantID, g.username).Row().Scan(&userID); err != nil {
				log.Fatalf("failed to look up user %s: %v", g.username, err)
			}

			if err := db.Exec(
				`INSERT INTO permission_grants (user_id, area, can_view, can_edit, can_delete, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, now(), now())
				 ON CONFLICT (user_id, area) DO UPDATE SET can_view = EXCLUDED.can_view, can_edit = EXCLUDED.can_edit, can_delete = EXCLUDED.can_delete, updated_at = now()`,
				userID, g.area, g.view, g.edit, g.del,
			).Error; err != nil {
				log.Fatalf("failed to seed grant %s/%s: %v", g.username, g.area, err)
			}
			fmt.Printf("Seeded grant %s/%s\n", g.username, g.area)
		}

		fmt.Println("Seeding complete. All users authenticate with password \"password\".")
	},
}
