package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & applicants
var (
	TestAdminUser m.User
	TestRecruiter m.User

	// Plain password every seeded account logs in with
	TestSeedPassword = "SeedPass123!"

	TestApplicant1 m.Applicant
	TestApplicant2 m.Applicant
	TestApplicant3 m.Applicant
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts the seed users and a small applicant set if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got created during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	hashed, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	TestAdminUser = m.User{
		Username: "seed_admin",
		Email:    "seed.admin@flixhiring.test",
		Password: hashed,
		Role:     m.RoleAdmin,
	}
	TestRecruiter = m.User{
		Username: "seed_recruiter",
		Email:    "seed.recruiter@flixhiring.test",
		Password: hashed,
		Role:     m.RoleRecruiter,
	}
	if err := db.Create(&TestAdminUser).Error; err != nil {
		return err
	}
	if err := db.Create(&TestRecruiter).Error; err != nil {
		return err
	}

	soon := time.Now().UTC().Add(2 * time.Hour)
	TestApplicant1 = m.Applicant{
		FullName:     "Ada Seed",
		Email:        "ada.seed@example.com",
		CurrentStage: pipeline.StageChallengeEmail,
	}
	TestApplicant2 = m.Applicant{
		FullName:      "Brian Seed",
		Email:         "brian.seed@example.com",
		CurrentStage:  pipeline.StageFirstInterview,
		InterviewDate: &soon,
	}
	TestApplicant3 = m.Applicant{
		FullName:     "Cleo Seed",
		Email:        "cleo.seed@example.com",
		CurrentStage: pipeline.StageRejected,
	}

	for _, a := range []*m.Applicant{&TestApplicant1, &TestApplicant2, &TestApplicant3} {
		if err := db.Create(a).Error; err != nil {
			return err
		}
		entry := pipeline.CreationEntry(a.CurrentStage, TestRecruiter.ActorLabel(), time.Now().UTC())
		history := m.NewStageHistory(a.ID, entry, nil)
		if err := db.Create(&history).Error; err != nil {
			return err
		}
	}

	return nil
}

// loadTestData refreshes the exported seed records from an already seeded
// database, so later test packages sharing the container see the same data.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.Where("username = ?", "seed_admin").First(&TestAdminUser).Error; err != nil {
		return err
	}
	if err := db.Where("username = ?", "seed_recruiter").First(&TestRecruiter).Error; err != nil {
		return err
	}
	if err := db.Where("email = ?", "ada.seed@example.com").First(&TestApplicant1).Error; err != nil {
		return err
	}
	if err := db.Where("email = ?", "brian.seed@example.com").First(&TestApplicant2).Error; err != nil {
		return err
	}
	return db.Where("email = ?", "cleo.seed@example.com").First(&TestApplicant3).Error
}
