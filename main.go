package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/api"
	"github.com/fetchops/ai-project-catalog/config"
	"github.com/fetchops/ai-project-catalog/database"
	"github.com/fetchops/ai-project-catalog/models"
	"github.com/fetchops/ai-project-catalog/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	if path := config.GetString(c, "CONFIG_FILE", ""); path != "" {
		if err := config.MergeFile(c, path); err != nil {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.GetString(c, "AWS_REGION", "us-east-1")))
		if err != nil {
			cancel()
			fmt.Printf("Error loading AWS configuration: %v\n", err)
			os.Exit(1)
		}
		n, err := config.MergeSSM(ctx, ssm.NewFromConfig(awsCfg), c, prefix)
		cancel()
		if err != nil {
			fmt.Printf("Error reading SSM parameters: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %d parameters from %s\n", n, prefix)
	}

	settings, err := config.Load(c)
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogging(settings)

	currentDB, err := database.Open(database.Config{
		DSN:        settings.DatabaseDSN,
		ReplicaDSN: settings.DatabaseReplicaDSN,
		Retry: database.RetryPolicy{
			Attempts:        settings.DBRetryAttempts,
			InitialInterval: database.DefaultRetryPolicy.InitialInterval,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer currentDB.Close()

	if err := database.Migrate(currentDB.DB()); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(currentDB.DB()); err != nil {
			log.Error().Err(err).Msg("model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(currentDB.DB())
		return
	}

	deps := api.Dependencies{
		Projects: currentDB.ProjectRepo(),
		Tools:    currentDB.ToolRepo(),
		Pinger:   currentDB,
		Notifier: buildNotifier(settings),
	}
	if settings.ExportBucket != "" {
		archiver, err := buildArchiver(settings)
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring export archive")
		}
		deps.Archiver = archiver
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(settings, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging writes human-readable logs in development and JSON elsewhere
func setupLogging(settings config.Settings) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !settings.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("env", settings.Environment).Logger()
}

// buildNotifier wires every configured announcement channel
func buildNotifier(settings config.Settings) services.Notifier {
	var notifiers []services.Notifier
	if settings.SlackWebhookURL != "" {
		notifiers = append(notifiers, services.NewSlackNotifier(settings.SlackWebhookURL, settings.AppBaseURL))
	} else {
		log.Warn().Msg("SLACK_WEBHOOK_URL not set, new projects will not be announced in Slack")
	}
	if settings.SMSEnabled() {
		notifiers = append(notifiers, services.NewTwilioNotifier(
			settings.TwilioAccountSID,
			settings.TwilioAuthToken,
			settings.TwilioFrom,
			settings.NotifySMSTo,
			settings.AppBaseURL,
		))
	}
	return services.Combine(notifiers...)
}

func buildArchiver(settings config.Settings) (services.Archiver, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return services.NewS3Archiver(s3.NewFromConfig(awsCfg), settings.ExportBucket), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
