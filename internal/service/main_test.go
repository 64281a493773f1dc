package service

import (
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/repository"
	"course_studio_backend/pkg/database"
	"course_studio_backend/pkg/logger"
	"fmt"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB opens a throwaway in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Authoring: config.AuthoringConfig{
			SessionIdleHours:    72,
			PurgeAfterDays:      30,
			IdempotencyTTLHours: 24,
		},
		Catalog: config.CatalogConfig{CacheTTLSeconds: 60},
	}
}

type testEnv struct {
	db         *gorm.DB
	course     *CourseService
	curriculum *CurriculumService
	assessment *AssessmentService
	catalog    *CatalogService
	draft      *DraftService

	courses       *repository.CourseRepository
	modules       *repository.ModuleRepository
	lessons       *repository.LessonRepository
	subscriptions *repository.SubscriptionRepository
	sessions      *repository.SessionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()

	courses := repository.NewCourseRepository(db)
	modules := repository.NewModuleRepository(db)
	lessons := repository.NewLessonRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)
	sessions := repository.NewSessionRepository(db)
	assessments := repository.NewAssessmentRepository(db)

	courseSvc := NewCourseService(courses, modules, nil, cfg)
	return &testEnv{
		db:            db,
		course:        courseSvc,
		curriculum:    NewCurriculumService(courses, modules, lessons),
		assessment:    NewAssessmentService(assessments, courses),
		catalog:       NewCatalogService(courses, lessons, subscriptions, nil, cfg),
		draft:         NewDraftService(sessions, courses, courseSvc, nil, cfg, db),
		courses:       courses,
		modules:       modules,
		lessons:       lessons,
		subscriptions: subscriptions,
		sessions:      sessions,
	}
}

// seedUser inserts an account directly; auth flows have their own tests.
func seedUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test " + string(role),
		Email:    fmt.Sprintf("%s-%d@example.com", role, seq()),
		Password: "irrelevant",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

var seqCounter int

func seq() int {
	seqCounter++
	return seqCounter
}
