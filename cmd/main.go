package main

import (
	"fmt"
	"os"

	_ "github.com/franciscosanchezn/gin-foodgram-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/controllers"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// rootCmd runs the API server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Foodgram recipe sharing API",
	Long: `Foodgram is a recipe sharing backend: users publish recipes, follow authors,
keep favorites and build a shopping list from the recipes in their cart.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadDotenvFile()
		setUpLogger()
		return nil
	},
	RunE: runServe,
}

// @title Foodgram API
// @version 1.0
// @description Recipe sharing API: recipes, tags, ingredients, favorites, shopping cart and subscriptions
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, loadIngredientsCmd, createTokenCmd)
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// packageLoggers follow the level chosen for the standard logger
var packageLoggers = []func(log.Level){
	config.SetLogLevel,
	database.SetLogLevel,
	services.SetLogLevel,
	controllers.SetLogLevel,
}

func setLogLevel(level log.Level) {
	log.SetLevel(level)
	for _, set := range packageLoggers {
		set(level)
	}
}

// environmentLogLevel maps APP_ENV to its default level
func environmentLogLevel(environment string) log.Level {
	switch environment {
	case "development":
		return log.DebugLevel
	case "production":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	setLogLevel(environmentLogLevel(config.GetEnvWithDefault("APP_ENV", "development")))
}

// applyLogLevel honours an explicit LOG_LEVEL on top of the environment default
func applyLogLevel(conf *config.Config) {
	if conf.LogLevel == "" {
		return
	}
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		log.WithField("log_level", conf.LogLevel).Warn("Unknown LOG_LEVEL, keeping default")
		return
	}
	setLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
func loadConfig() (*config.Config, error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	applyLogLevel(conf)
	return conf, nil
}

// openDatabase connects and migrates the schema
func openDatabase(conf *config.Config) (*gorm.DB, error) {
	db, err := database.InitDatabase(conf.Database())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// closeDatabase releases the pool, logging instead of failing the command
func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		log.WithError(err).Error("Failed to close database")
	}
}
