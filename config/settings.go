package config

import (
	"fmt"
	"time"
)

// Settings is the typed view of the configuration map used by main and the api package
type Settings struct {
	Environment string
	LogLevel    string

	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DatabaseDSN        string
	DatabaseReplicaDSN string
	DBRetryAttempts    int

	AcceptedOrigins []string
	AppBaseURL      string

	AdminKey           string
	SessionSecret      string
	APITokenSecret     string
	GoogleClientID     string
	GoogleClientSecret string
	AdminEmailDomain   string
	LoginRateLimit     string

	StrictTeams bool

	SlackWebhookURL  string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	NotifySMSTo      []string

	ExportBucket string
	AWSRegion    string
}

// Load builds Settings from a configuration map, applying defaults
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Environment: GetString(c, "ENV", "development"),
		LogLevel:    GetString(c, "LOG_LEVEL", "info"),

		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),

		DatabaseReplicaDSN: GetString(c, "DATABASE_REPLICA_URL", ""),
		DBRetryAttempts:    GetInt(c, "DB_RETRY_ATTEMPTS", 3),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		AppBaseURL:      GetString(c, "APP_BASE_URL", "http://localhost:8080"),

		AdminKey:           GetString(c, "ADMIN_KEY", ""),
		SessionSecret:      GetString(c, "SESSION_SECRET", ""),
		APITokenSecret:     GetString(c, "API_TOKEN_SECRET", ""),
		GoogleClientID:     GetString(c, "GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetString(c, "GOOGLE_CLIENT_SECRET", ""),
		AdminEmailDomain:   GetString(c, "ADMIN_EMAIL_DOMAIN", ""),
		LoginRateLimit:     GetString(c, "LOGIN_RATE_LIMIT", "10-M"),

		StrictTeams: GetBool(c, "STRICT_TEAMS", true),

		SlackWebhookURL:  GetString(c, "SLACK_WEBHOOK_URL", ""),
		TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       GetString(c, "TWILIO_FROM", ""),
		NotifySMSTo:      GetList(c, "NOTIFY_SMS_TO"),

		ExportBucket: GetString(c, "EXPORT_BUCKET", ""),
		AWSRegion:    GetString(c, "AWS_REGION", "us-east-1"),
	}

	dsn, err := databaseDSN(c)
	if err != nil {
		return Settings{}, err
	}
	s.DatabaseDSN = dsn

	if s.SessionSecret == "" {
		if s.IsProduction() {
			return Settings{}, fmt.Errorf("SESSION_SECRET must be set when ENV=production")
		}
		s.SessionSecret = "dev-only-session-secret-change-me!"
	}
	if s.DBRetryAttempts < 1 {
		s.DBRetryAttempts = 1
	}
	return s, nil
}

// databaseDSN builds the connection string according to DB_TYPE
func databaseDSN(c map[string]string) (string, error) {
	switch dbType := GetString(c, "DB_TYPE", "url"); dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			GetString(c, "SUPABASE_DB_HOST", ""),
			GetString(c, "SUPABASE_DB_USER", ""),
			GetString(c, "SUPABASE_DB_PASSWORD", ""),
			GetString(c, "SUPABASE_DB_NAME", ""),
			GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "url":
		dsn := GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL must be set when DB_TYPE=url")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

func (s Settings) IsProduction() bool {
	return s.Environment == "production"
}

func (s Settings) GoogleSignInEnabled() bool {
	return s.GoogleClientID != "" && s.GoogleClientSecret != "" && s.AdminEmailDomain != ""
}

func (s Settings) SMSEnabled() bool {
	return s.TwilioAccountSID != "" && s.TwilioAuthToken != "" && s.TwilioFrom != "" && len(s.NotifySMSTo) > 0
}
