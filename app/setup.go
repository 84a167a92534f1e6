package app

import (
	"fmt"
	"os"

	"github.com/guardian-portal/api/api"
	"github.com/guardian-portal/api/config"
	"github.com/guardian-portal/api/database"
	"github.com/guardian-portal/api/router"
	"github.com/guardian-portal/api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup routes; the returned dependencies feed the cron manager
	deps := router.SetupRoutes(app, store)

	// Cron jobs (default enabled)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		cronManager = cron.NewCronManager(deps.DB, deps.Blacklist, deps.Notifications, deps.Dispatcher)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	return server.Run()
}
