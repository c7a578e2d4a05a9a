package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Port                      int
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       int
		DisableTLS bool
	}

	// RMConfig holds the base URLs and service credentials for the
	// downstream survey-data-collection services.
	RMConfig struct {
		CollectionExerciseURL string
		CaseURL               string
		SampleURL             string
		SurveyURL             string
		PartyURL              string
		SecureMessageURL      string
		ServiceUser           string
		ServicePassword       string
		ClientTimeout         time.Duration
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey                 string
		FrontendBaseURL           string
		PasswordResetTimeoutDelta time.Duration

		SendgridApiKey   string
		defaultFromEmail string
		RollbarToken     string

		SurveyCacheTTL    time.Duration
		SurveyRefreshCron string

		Server   ServerConfig
		Database DatabaseConfig
		RM       RMConfig
	}
)

func (conf *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
}

func (srvConf ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", srvConf.Host, srvConf.Port)
}

func (dbConf DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", dbConf.Host, dbConf.Port)
}

// NewConfig loads the configuration from defaults, an optional
// `config/.env.<env>` file and environment variables, in increasing order
// of precedence.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "ResponseOps")
	v.SetDefault("secretKey", "j9#w!rko45^a_x(ml$y+qf8&@7zcb=e2s1uvghd0t6np3i*-")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "surveys@localhost")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverPort", 8000)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "respops")
	v.SetDefault("dbUser", "")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("collectionExerciseURL", "http://localhost:8145")
	v.SetDefault("caseURL", "http://localhost:8171")
	v.SetDefault("sampleURL", "http://localhost:8125")
	v.SetDefault("surveyURL", "http://localhost:8080")
	v.SetDefault("partyURL", "http://localhost:8081")
	v.SetDefault("secureMessageURL", "http://localhost:5050")
	v.SetDefault("serviceUser", "admin")
	v.SetDefault("servicePassword", "secret")
	v.SetDefault("rmClientTimeout", 30*time.Second)

	v.SetDefault("surveyCacheTTL", 10*time.Minute)
	v.SetDefault("surveyRefreshCron", "@every 10m")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),

		SecretKey:                 v.GetString("secretKey"),
		FrontendBaseURL:           v.GetString("frontendBaseURL"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),

		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		RollbarToken:     v.GetString("rollbarToken"),

		SurveyCacheTTL:    v.GetDuration("surveyCacheTTL"),
		SurveyRefreshCron: v.GetString("surveyRefreshCron"),

		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Port:                      v.GetInt("serverPort"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
			ShutdownTimeout:           v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("dbEngine"),
			Name:       v.GetString("dbName"),
			User:       v.GetString("dbUser"),
			Password:   v.GetString("dbPassword"),
			Host:       v.GetString("dbHost"),
			Port:       v.GetInt("dbPort"),
			DisableTLS: v.GetBool("dbDisableTLS"),
		},
		RM: RMConfig{
			CollectionExerciseURL: v.GetString("collectionExerciseURL"),
			CaseURL:               v.GetString("caseURL"),
			SampleURL:             v.GetString("sampleURL"),
			SurveyURL:             v.GetString("surveyURL"),
			PartyURL:              v.GetString("partyURL"),
			SecureMessageURL:      v.GetString("secureMessageURL"),
			ServiceUser:           v.GetString("serviceUser"),
			ServicePassword:       v.GetString("servicePassword"),
			ClientTimeout:         v.GetDuration("rmClientTimeout"),
		},
	}
}
