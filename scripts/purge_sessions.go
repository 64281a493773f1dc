// Manual trigger for the authoring-session cleanup.
//
// The same sweep runs inside the main application on a cron schedule. This
// script exists for one-off runs, e.g. after bulk-importing legacy drafts.
//
// Usage: go run scripts/purge_sessions.go

package main

import (
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/repository"
	"course_studio_backend/pkg/database"
	"course_studio_backend/pkg/logger"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}
	if cfg.Authoring.PurgeAfterDays <= 0 {
		cfg.Authoring.PurgeAfterDays = 30
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	sessions := repository.NewSessionRepository(db)

	expired, err := sessions.ExpireIdle(time.Now())
	if err != nil {
		log.Fatalf("expire sweep failed: %v", err)
	}

	purged, err := sessions.PurgeExpired(time.Now().AddDate(0, 0, -cfg.Authoring.PurgeAfterDays))
	if err != nil {
		log.Fatalf("purge sweep failed: %v", err)
	}

	log.Printf("done: %d sessions expired, %d purged", expired, purged)
}
