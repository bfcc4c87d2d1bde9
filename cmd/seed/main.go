package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gigflow/gigflow-backend/internal/auth"
	"github.com/gigflow/gigflow-backend/internal/config"
	"github.com/gigflow/gigflow-backend/internal/db"
	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/joho/godotenv"
)

// Seeds a demo marketplace: a handful of users, open gigs with skill
// tags, and pending bids on the first few gigs.

type seedGig struct {
	Title       string
	Description string
	Budget      float64
	BudgetType  model.BudgetType
	Skills      []string
	DaysOut     int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.User{}, &model.Gig{}, &model.Bid{}, &model.Conversation{}, &model.Message{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	userRepo := repository.NewUserRepository(gdb)

	existing, err := userRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 && !strings.EqualFold(os.Getenv("FORCE_SEED"), "true") {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}
	users := []*model.User{
		{Name: "Ava Client", Email: "ava@example.com", PasswordHash: hash, Bio: "Hiring for small web projects"},
		{Name: "Ben Builder", Email: "ben@example.com", PasswordHash: hash, Skills: []string{"go", "react"}},
		{Name: "Cara Coder", Email: "cara@example.com", PasswordHash: hash, Skills: []string{"design", "figma"}},
		{Name: "Dan Dev", Email: "dan@example.com", PasswordHash: hash, Skills: []string{"python", "scraping"}},
	}
	for _, u := range users {
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Email, err)
		}
	}

	gigs := buildSeedGigs()
	gigRepo := repository.NewGigRepository(gdb)
	bidRepo := repository.NewBidRepository(gdb)

	for i, sg := range gigs {
		deadline := time.Now().AddDate(0, 0, sg.DaysOut)
		gig := &model.Gig{
			Title:          sg.Title,
			Description:    sg.Description,
			Budget:         sg.Budget,
			BudgetType:     sg.BudgetType,
			SkillsRequired: sg.Skills,
			Deadline:       &deadline,
			OwnerID:        users[0].ID,
			Status:         model.GigStatusOpen,
		}
		if err := gigRepo.Create(ctx, gig); err != nil {
			return fmt.Errorf("create gig %q: %w", sg.Title, err)
		}
		if i < 3 {
			for _, bidder := range users[1:3] {
				bid := &model.Bid{
					GigID:        gig.ID,
					FreelancerID: bidder.ID,
					Message:      fmt.Sprintf("Hi, I'd love to work on %q. I have shipped similar projects before.", sg.Title),
					Price:        sg.Budget * 0.9,
					Status:       model.BidStatusPending,
				}
				if err := bidRepo.Create(ctx, bid); err != nil {
					return fmt.Errorf("create bid on %q: %w", sg.Title, err)
				}
			}
		}
	}

	log.Printf("seeded %d users and %d gigs", len(users), len(gigs))
	return nil
}

func buildSeedGigs() []seedGig {
	return []seedGig{
		{"Landing page for coffee shop", "Single-page marketing site with a contact form and a menu section.", 500, model.BudgetTypeFixed, []string{"html", "css", "react"}, 14},
		{"REST API for inventory app", "Design and build a small CRUD API with auth and tests.", 1200, model.BudgetTypeFixed, []string{"go", "mysql"}, 30},
		{"Logo and brand kit", "Logo, color palette and typography for a new bakery.", 350, model.BudgetTypeFixed, []string{"design", "illustrator"}, 21},
		{"Data scraping pipeline", "Scrape three public catalogs weekly and load into a spreadsheet.", 40, model.BudgetTypeHourly, []string{"python", "scraping"}, 45},
		{"Bug fixes on React dashboard", "A dozen open issues on an admin dashboard need triage and fixes.", 35, model.BudgetTypeHourly, []string{"react", "typescript"}, 10},
	}
}
