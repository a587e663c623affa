package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env                       string // DEV (local; default), TEST, QA, PROD
		Build                     string
		Debug                     bool
		TestMode                  bool
		AppName                   string
		SecretKey                 string
		DefaultFromEmail          mail.Address
		FrontendBaseURL           string
		RollbarToken              string
		EmailProvider             string // console, sendgrid, resend
		SendgridAPIKey            string
		ResendAPIKey              string
		PasswordResetTimeoutDelta time.Duration
		WorkDir                   string

		Server   ServerConfig
		Database DatabaseConfig
		Bell     BellConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		DisableReqLogs            bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	BellConfig struct {
		Timezone     string
		PollInterval time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location loads the reference timezone of the bell schedule.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Bell.Timezone)
}

// NewConfig reads the configuration from the environment (and `config/.env.<env>` if it exists).
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", env == "DEV" || env == "TEST")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Shkola")
	v.SetDefault("secretKey", "0w9k-sh)kola$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2zz")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("emailProvider", "console")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("resendAPIKey", "")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbName", "shkola")
	v.SetDefault("dbUser", "shkola")
	v.SetDefault("dbPassword", "shkola")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "postgres")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("bellTimezone", "Europe/Samara")
	v.SetDefault("bellPollInterval", time.Second)

	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatal(fmt.Errorf("config.defaultFromEmail: %v", err))
	}

	return &Config{
		Env:                       env,
		Build:                     v.GetString("build"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		SecretKey:                 v.GetString("secretKey"),
		DefaultFromEmail:          *from,
		FrontendBaseURL:           strings.TrimSuffix(v.GetString("frontendBaseURL"), "/"),
		RollbarToken:              v.GetString("rollbarToken"),
		EmailProvider:             strings.ToLower(v.GetString("emailProvider")),
		SendgridAPIKey:            v.GetString("sendgridAPIKey"),
		ResendAPIKey:              v.GetString("resendAPIKey"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		WorkDir:                   wd,
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Address:                   v.GetString("serverAddress"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
			DisableReqLogs:            v.GetBool("serverDisableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Bell: BellConfig{
			Timezone:     v.GetString("bellTimezone"),
			PollInterval: v.GetDuration("bellPollInterval"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests; nothing is read from the environment.
func NewTestConfig() *Config {
	return &Config{
		Env:                       "TEST",
		Build:                     "test",
		Debug:                     false,
		TestMode:                  true,
		AppName:                   "Shkola",
		SecretKey:                 "secret",
		DefaultFromEmail:          mail.Address{Address: "noreply@localhost"},
		FrontendBaseURL:           "http://localhost:3000",
		EmailProvider:             "console",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: ServerConfig{
			Host:                      "localhost",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			DisableReqLogs:            true,
		},
		Bell: BellConfig{
			Timezone:     "Europe/Samara",
			PollInterval: time.Second,
		},
	}
}
