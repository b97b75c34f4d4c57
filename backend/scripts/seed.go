package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/internal/graph"
	"github.com/Psyfo/genealogy-app/backend/internal/person"
	"github.com/Psyfo/genealogy-app/backend/pkg/config"
	"github.com/Psyfo/genealogy-app/backend/pkg/logger"
)

func main() {
	clearFirst := flag.Bool("clear", false, "Clear the existing graph before seeding")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *clearFirst {
		log.Info("Clearing existing graph...")
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		session.Close(ctx)
		if err != nil {
			log.Fatal("Failed to clear graph", zap.Error(err))
		}
	}

	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	// Grandparents generation
	william := mustCreate(ctx, log, repo, seedInput("William", "Smith", "1920-03-15", "male", func(in *person.Input) {
		in.BirthPlace = str("London, England")
		in.DeathDate = str("1995-08-22")
		in.DeathPlace = str("Manchester, England")
		in.Occupation = str("Factory Worker")
		in.Nationality = str("British")
		in.Notes = str("Served in World War II")
	}))
	margaret := mustCreate(ctx, log, repo, seedInput("Margaret", "Smith", "1923-07-08", "female", func(in *person.Input) {
		in.MaidenName = str("Thompson")
		in.BirthPlace = str("Birmingham, England")
		in.DeathDate = str("2001-12-03")
		in.Occupation = str("Nurse")
		in.Nationality = str("British")
	}))
	robert := mustCreate(ctx, log, repo, seedInput("Robert", "Johnson", "1918-11-20", "male", func(in *person.Input) {
		in.BirthPlace = str("Glasgow, Scotland")
		in.DeathDate = str("1988-04-10")
		in.Occupation = str("Engineer")
		in.MilitaryService = str("Royal Air Force, WWII")
		in.Nationality = str("Scottish")
	}))
	elizabeth := mustCreate(ctx, log, repo, seedInput("Elizabeth", "Johnson", "1921-05-12", "female", func(in *person.Input) {
		in.MaidenName = str("Brown")
		in.BirthPlace = str("Edinburgh, Scotland")
		in.DeathDate = str("1992-09-18")
		in.Occupation = str("Teacher")
		in.Nationality = str("Scottish")
	}))

	// Parents generation
	john := mustCreate(ctx, log, repo, seedInput("John", "Smith", "1945-06-10", "male", func(in *person.Input) {
		in.BirthPlace = str("Manchester, England")
		in.Occupation = str("Mechanical Engineer")
		in.Employer = str("British Aerospace")
		in.Email = str("john.smith@email.com")
		in.PhoneNumber = str("+44-161-555-0123")
		in.BloodType = str("O+")
	}))
	mary := mustCreate(ctx, log, repo, seedInput("Mary", "Smith", "1947-09-25", "female", func(in *person.Input) {
		in.MaidenName = str("Johnson")
		in.BirthPlace = str("Edinburgh, Scotland")
		in.Occupation = str("Primary School Teacher")
		in.Email = str("mary.smith@email.com")
	}))

	// Children generation
	david := mustCreate(ctx, log, repo, seedInput("David", "Smith", "1970-02-14", "male", func(in *person.Input) {
		in.Occupation = str("Software Developer")
	}))
	sarah := mustCreate(ctx, log, repo, seedInput("Sarah", "Smith", "1972-11-30", "female", func(in *person.Input) {
		in.Occupation = str("Doctor")
	}))
	emma := mustCreate(ctx, log, repo, seedInput("Emma", "Smith", "1975-07-04", "female", nil))

	// Marriages
	marriages := [][2]string{
		{william.ID, margaret.ID},
		{robert.ID, elizabeth.ID},
		{john.ID, mary.ID},
	}
	for _, pair := range marriages {
		err := repo.CreateRelationship(ctx, person.Relationship{
			FromID: pair[0], ToID: pair[1], Type: person.RelMarriedTo,
		})
		if err != nil {
			log.Fatal("Failed to create marriage", zap.Error(err))
		}
	}

	// Parent-child links through the maintainer, so the denormalized
	// references and sibling sets come out consistent
	type link struct {
		child, parent string
		role          person.ParentRole
	}
	links := []link{
		{john.ID, william.ID, person.RoleFather},
		{john.ID, margaret.ID, person.RoleMother},
		{mary.ID, robert.ID, person.RoleFather},
		{mary.ID, elizabeth.ID, person.RoleMother},
		{david.ID, john.ID, person.RoleFather},
		{david.ID, mary.ID, person.RoleMother},
		{sarah.ID, john.ID, person.RoleFather},
		{sarah.ID, mary.ID, person.RoleMother},
		{emma.ID, john.ID, person.RoleFather},
		{emma.ID, mary.ID, person.RoleMother},
	}
	for _, l := range links {
		if err := repo.AddParentChild(ctx, l.child, l.parent, l.role); err != nil {
			log.Fatal("Failed to link parent and child", zap.Error(err))
		}
	}

	log.Info("Seeding complete",
		zap.Int("people", 9),
		zap.Int("marriages", len(marriages)),
		zap.Int("parent_child_links", len(links)),
	)
}

func createConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		"CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE", nil)
	return err
}

func seedInput(firstName, lastName, birthDate, gender string, extra func(*person.Input)) *person.Input {
	in := &person.Input{
		FirstName: str(firstName),
		LastName:  str(lastName),
		BirthDate: str(birthDate),
		Gender:    str(gender),
		CreatedBy: str("seed-script"),
	}
	if extra != nil {
		extra(in)
	}
	return in
}

func mustCreate(ctx context.Context, log *zap.Logger, repo *graph.Repository, in *person.Input) *person.Person {
	p, err := repo.CreatePerson(ctx, in)
	if err != nil {
		log.Fatal("Failed to create person", zap.Error(err))
	}
	return p
}

func str(s string) *string {
	return &s
}
