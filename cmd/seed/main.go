package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/pflag"

	"github.com/khoahotran/me-api/adapters/event"
	"github.com/khoahotran/me-api/adapters/persistence"
	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	seedUC "github.com/khoahotran/me-api/internal/application/usecase/seed"
	"github.com/khoahotran/me-api/internal/config"
	"github.com/khoahotran/me-api/pkg/logger"
)

func main() {
	file := pflag.StringP("file", "f", "", "seed document (YAML); the built-in profile when empty")
	migrate := pflag.Bool("migrate", true, "apply pending migrations first")
	pflag.Parse()

	fmt.Println("seeding profile into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if *file == "" {
		*file = cfg.Seed.File
	}
	doc, err := seedUC.LoadDocument(*file)
	if err != nil {
		log.Fatalf("FATAL: cannot load seed document: %v", err)
	}

	if *migrate {
		if err := persistence.RunMigrations(cfg.DB.DSN, appLogger); err != nil {
			log.Fatalf("FATAL: cannot run migrations: %v", err)
		}
	}

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect DB: %v", err)
	}
	defer pool.Close()

	publisher := event.NewPublisher(cfg, appLogger)
	if kafkaClient, ok := publisher.(*event.KafkaProducerClient); ok {
		defer kafkaClient.Close()
	}

	profileUseCase := profileUC.NewProfileUseCase(
		persistence.NewPostgresTransactor(pool, appLogger),
		persistence.NewPostgresProfileRepo(pool, appLogger),
		persistence.NewPostgresSkillRepo(pool, appLogger),
		persistence.NewPostgresProjectRepo(pool, appLogger),
		persistence.NewPostgresWorkRepo(pool, appLogger),
		publisher,
		appLogger,
	)

	out, err := seedUC.NewSeedUseCase(profileUseCase, appLogger).Execute(ctx, doc)
	if err != nil {
		log.Fatalf("FATAL: cannot seed profile: %v", err)
	}
	if !out.Created {
		fmt.Println("database already seeded, nothing to do")
		return
	}
	fmt.Printf("seeded profile '%s' (id %d) successfully!\n", doc.Name, out.ProfileID)
}
