package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/khoahotran/me-api/adapters/event"
	"github.com/khoahotran/me-api/adapters/persistence"
	backupUC "github.com/khoahotran/me-api/internal/application/usecase/backup"
	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/internal/config"
	"github.com/khoahotran/me-api/pkg/logger"
)

// backup exports the current profile as a seed document that cmd/seed accepts.
func main() {
	outPath := pflag.StringP("out", "o", "", "output file; stdout when empty")
	pflag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	// Logs go to stderr so stdout stays a clean YAML document.
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect DB: %v", err)
	}
	defer pool.Close()

	profileUseCase := profileUC.NewProfileUseCase(
		persistence.NewPostgresTransactor(pool, appLogger),
		persistence.NewPostgresProfileRepo(pool, appLogger),
		persistence.NewPostgresSkillRepo(pool, appLogger),
		persistence.NewPostgresProjectRepo(pool, appLogger),
		persistence.NewPostgresWorkRepo(pool, appLogger),
		event.NewNopPublisher(),
		appLogger,
	)

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("FATAL: cannot create %s: %v", *outPath, err)
		}
		defer f.Close()
		w = f
	}

	if err := backupUC.NewBackupUseCase(profileUseCase, appLogger).Execute(ctx, w); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if *outPath != "" {
		fmt.Fprintf(os.Stderr, "profile exported to %s\n", *outPath)
	}
}
