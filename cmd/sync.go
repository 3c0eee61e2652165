package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/internal/directory"
	"github.com/wicaksana/internal-portal/internal/directory/bubble"
	directoryPostgres "github.com/wicaksana/internal-portal/internal/directory/postgres"
	"github.com/wicaksana/internal-portal/pkg/logger"
)

var (
	syncTenantID int64

	syncCmd = &cobra.Command{
		Use:   "sync",
		Short: "Run a directory sync for one tenant",
		Long:  `Mirror the upstream employee directory into the local database. Meant to be run from cron in addition to the on-demand API trigger.`,
		Run: func(cmd *cobra.Command, args []string) {
			runDirectorySync()
		},
	}
)

func init() {
	syncCmd.Flags().Int64Var(&syncTenantID, "tenant", 0, "tenant id to sync (required)")
	_ = syncCmd.MarkFlagRequired("tenant")
}

func runDirectorySync() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level)
	lg := logger.L()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init orm: %v", err)
	}

	client, err := bubble.NewClient(bubble.Config{
		BaseURL:        cfg.Sync.BubbleBaseURL,
		APIToken:       cfg.Sync.BubbleAPIToken,
		PageSize:       cfg.Sync.PageSize,
		RequestTimeout: cfg.Sync.RequestTimeout,
	}, lg)
	if err != nil {
		log.Fatalf("failed to init directory client: %v", err)
	}

	service := directory.NewService(
		directoryPostgres.NewRepository(db),
		client,
		nil, // no per-request checks on the cron path
		events.NewEventBus(lg),
		lg,
	)

	result, err := service.SyncTenant(context.Background(), syncTenantID)
	if err != nil {
		log.Fatalf("directory sync failed: %v", err)
	}

	lg.Info("directory sync finished",
		"tenant_id", syncTenantID,
		"created", result.Created,
		"updated", result.Updated,
		"deactivated", result.Deactivated)
}
