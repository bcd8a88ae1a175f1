package main

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"log"

	"github.com/spf13/pflag"

	"github.com/wintutor/wintutor/internal/catalog"
	"github.com/wintutor/wintutor/internal/domain"
	infra "github.com/wintutor/wintutor/internal/infrastructure"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
	"github.com/wintutor/wintutor/internal/infrastructure/logging"
)

// seeds the course catalog from a JSON fixture, upserting so re-runs
// refresh existing rows in place
func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	pflag.String("data", "data/courses.json", "course fixture to load")
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
	defer logger.Sync()

	dataPath := "data/courses.json"
	if f := pflag.Lookup("data"); f != nil {
		dataPath = f.Value.String()
	}
	raw, err := ioutil.ReadFile(dataPath)
	if err != nil {
		log.Fatalf("Failed to read course fixture: %s\n", err)
	}
	var courses []*domain.CourseModel
	if err := json.Unmarshal(raw, &courses); err != nil {
		log.Fatalf("Failed to parse course fixture: %s\n", err)
	}

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

	ctx := logging.SetLoggerInContext(context.Background(), logger)
	repo := catalog.NewCatalogRepository(dbConn)
	for _, course := range courses {
		if err := repo.SaveCourse(ctx, course); err != nil {
			log.Fatalf("Failed to seed course %s: %s\n", course.ID, err)
		}
		log.Printf("Seeded course %s (%d lessons)\n", course.ID, len(course.Lessons))
	}
	dbConn.Close(ctx)
}
