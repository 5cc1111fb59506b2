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
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"video_progress", "purchased_courses", "transactions", "registrations", "pending_orders", "videos", "courses", "events", "testimonials", "inquiries", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		adminEmail := "admin@mail.com"
		var exists int
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO users (email, first_name, last_name, password_hash, role, is_active, is_verified, created_at, updated_at) VALUES (?, 'Platform', 'Admin', ?, 'admin', true, true, now(), now())",
				adminEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		learnerEmail := "learner@mail.com"
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", learnerEmail).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO users (email, first_name, last_name, password_hash, role, is_active, is_verified, created_at, updated_at) VALUES (?, 'Sample', 'Learner', ?, 'user', true, true, now(), now())",
				learnerEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert learner user: %v", err)
			}
			fmt.Println("Seeded learner user:", learnerEmail)
		}

		courses := []struct {
			Title  string
			Slug   string
			Amount int64
			IsFree bool
		}{
			{"Options Trading Fundamentals", "options-trading-fundamentals", 4999, false},
			{"Technical Analysis Bootcamp", "technical-analysis-bootcamp", 7999, false},
			{"Introduction to Markets", "introduction-to-markets", 0, true},
		}

		for _, c := range courses {
			if err := db.Raw("SELECT 1 FROM courses WHERE slug = ?", c.Slug).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO courses (title, slug, description, instructor, amount, currency, is_free, is_published, created_at, updated_at) VALUES (?, ?, 'Sample seeded course', 'Demo Instructor', ?, 'INR', ?, true, now(), now())",
				c.Title, c.Slug, c.Amount, c.IsFree).Error; err != nil {
				log.Fatalf("failed to insert course %s: %v", c.Slug, err)
			}

			var courseID int64
			if err := db.Raw("SELECT id FROM courses WHERE slug = ?", c.Slug).Row().Scan(&courseID); err != nil {
				log.Fatalf("course not found after insert %s: %v", c.Slug, err)
			}

			for i := 1; i <= 3; i++ {
				isPreview := i == 1
				if err := db.Exec(
					"INSERT INTO videos (course_id, title, url, duration_sec, position, is_preview, created_at, updated_at) VALUES (?, ?, ?, 600, ?, ?, now(), now())",
					courseID, fmt.Sprintf("%s - Lesson %d", c.Title, i),
					fmt.Sprintf("https://cdn.example.com/%s/lesson-%d.mp4", c.Slug, i),
					i, isPreview).Error; err != nil {
					log.Fatalf("failed to insert video for %s: %v", c.Slug, err)
				}
			}
			fmt.Println("Seeded course:", c.Slug)
		}

		eventTitle := "Live Market Outlook Webinar"
		if err := db.Raw("SELECT 1 FROM events WHERE title = ?", eventTitle).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO events (title, description, speaker, amount, currency, join_link, starts_at, is_published, created_at, updated_at) VALUES (?, 'Quarterly outlook session', 'Demo Speaker', 499, 'INR', 'https://meet.example.com/outlook', now() + interval '14 days', true, now(), now())",
				eventTitle).Error; err != nil {
				log.Fatalf("failed to insert event: %v", err)
			}
			fmt.Println("Seeded event:", eventTitle)
		}

		if err := db.Raw("SELECT 1 FROM testimonials LIMIT 1").Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO testimonials (name, occupation, message, rating, is_approved, created_at, updated_at) VALUES ('Demo Student', 'Analyst', 'The course paid for itself in a month.', 5, true, now(), now())").Error; err != nil {
				log.Fatalf("failed to insert testimonial: %v", err)
			}
			fmt.Println("Seeded testimonial")
		}

		fmt.Println("Seeding complete")
	},
}
