package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"communications", "invitations", "expenses", "itinerary_events", "trips", "profiles", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"dev@corpotravel.example", "Dora Desenvolvedora", "DESENVOLVEDOR"},
			{"gestor@corpotravel.example", "Gustavo Gestor", "GESTOR"},
			{"diretor@corpotravel.example", "Alice Assessora", "ASSESSOR_DIRETOR"},
			{"colaborador@corpotravel.example", "Carlos Colaborador", "COLABORADOR"},
		}

		for _, u := range users {
			if userExists(db, u.Email) {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			_, err := db.Exec(
				"INSERT INTO users (email, full_name, password_hash, role, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role,
			)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		var colaboradorID int64
		if err := db.Get(&colaboradorID, "SELECT id FROM users WHERE email = $1", "colaborador@corpotravel.example"); err != nil {
			log.Fatalf("failed to lookup seeded requester: %v", err)
		}

		var profileExists int
		if err := db.Get(&profileExists, "SELECT 1 FROM profiles WHERE user_id = $1", colaboradorID); err != nil {
			_, err := db.Exec(
				"INSERT INTO profiles (user_id, position, department, cost_center, document, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, now(), now())",
				colaboradorID, "Analista", "Engenharia", "CC-1001", "39053344705",
			)
			if err != nil {
				log.Fatalf("failed to insert profile: %v", err)
			}
			fmt.Println("Seeded employee profile")
		}

		var tripCount int
		if err := db.Get(&tripCount, "SELECT COUNT(1) FROM trips WHERE requester_id = $1", colaboradorID); err != nil {
			log.Fatalf("failed to count trips: %v", err)
		}
		if tripCount > 0 {
			fmt.Println("Sample trips already exist, skipping")
			return
		}

		now := time.Now()
		trips := []struct {
			Origin, Destination, Reason, Status string
			Start, End                          time.Time
			EstimatedCents                      int64
		}{
			{"Sao Paulo", "Recife", "Workshop regional de vendas", "aprovado", now.AddDate(0, 0, 14), now.AddDate(0, 0, 17), 320000},
			{"Sao Paulo", "Curitiba", "Visita ao cliente Aurora", "em_analise", now.AddDate(0, 0, 30), now.AddDate(0, 0, 32), 180000},
			{"Sao Paulo", "Salvador", "Treinamento interno concluido", "aprovado", now.AddDate(0, 0, -20), now.AddDate(0, 0, -17), 250000},
		}

		for _, t := range trips {
			var tripID int64
			err := db.Get(&tripID,
				"INSERT INTO trips (requester_id, origin, destination, start_date, end_date, reason, status, estimated_value_cents, cost_center, version, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, now(), now()) RETURNING id",
				colaboradorID, t.Origin, t.Destination, t.Start, t.End, t.Reason, t.Status, t.EstimatedCents, "CC-1001",
			)
			if err != nil {
				log.Fatalf("failed to insert trip to %s: %v", t.Destination, err)
			}

			_, err = db.Exec(
				"INSERT INTO itinerary_events (trip_id, event_type, title, starts_at, location, created_at) VALUES ($1, 'flight', 'Voo de ida', $2, $3, now())",
				tripID, t.Start.Add(8*time.Hour), t.Origin,
			)
			if err != nil {
				log.Fatalf("failed to insert itinerary event: %v", err)
			}
			fmt.Println("Seeded trip:", t.Destination, "status:", t.Status)
		}

		fmt.Println("Sample data seeded successfully")
	},
}

func userExists(db *sqlx.DB, email string) bool {
	var one int
	return db.Get(&one, "SELECT 1 FROM users WHERE email = $1", email) == nil
}
