package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/wintutor/wintutor/internal/catalog"
	infra "github.com/wintutor/wintutor/internal/infrastructure"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
	"github.com/wintutor/wintutor/internal/infrastructure/logging"
	"github.com/wintutor/wintutor/internal/infrastructure/uuid"
	ihttp "github.com/wintutor/wintutor/internal/interfaces/http"
	"github.com/wintutor/wintutor/internal/narration"
	"github.com/wintutor/wintutor/internal/player"
	"github.com/wintutor/wintutor/internal/progress"
	"github.com/wintutor/wintutor/internal/settings"
	"github.com/wintutor/wintutor/internal/user"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)
	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	ProgressRepo := progress.NewProgressRepository(dbConn)
	ProgressUseCase := progress.NewProgressUseCase(ProgressRepo, UUIDGenerator)

	CatalogRepo := catalog.NewCatalogRepository(dbConn)
	CatalogUseCase := catalog.NewCatalogUseCase(CatalogRepo, ProgressRepo)

	SettingsRepo := settings.NewSettingsRepository(rdb)
	SettingsUseCase := settings.NewSettingsUseCase(SettingsRepo)

	Synthesizer := narration.NewGoogleSynthesizer(option.Narration.APIKey, option.Narration.CacheDir, logger)
	Registry := player.NewRegistry()

	ihttp.Serve(dbConn, rdb, option,
		UserUseCase, UserRepo,
		CatalogUseCase, ProgressUseCase, SettingsUseCase,
		Synthesizer, Registry,
		logger)
}
