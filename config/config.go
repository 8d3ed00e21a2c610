// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	scanOnStart    = pflag.String("scan", "", "Scans the given directory on startup")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

// ScanOnStart returns the directory requested with --scan, empty when unset.
func ScanOnStart() string {
	return *scanOnStart
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.path", "database_path")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("library.media_dir", "library_media_dir")
	v.BindEnv("library.thumbnail_dir", "library_thumbnail_dir")
	v.BindEnv("library.preview_dir", "library_preview_dir")
	v.BindEnv("library.scan_extensions", "library_scan_extensions")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("ffmpeg.path", "ffmpeg_path")
	v.BindEnv("ffprobe.path", "ffprobe_path")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "library.db")

	v.SetDefault("library.media_dir", "media")
	v.SetDefault("library.thumbnail_dir", "media/thumbnails")
	v.SetDefault("library.preview_dir", "media/previews")

	// Megabytes until the shift below
	v.SetDefault("upload.max_size", 2048)

	v.SetDefault("security.rate_limit", 25)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("database.driver") == "postgres" && v.GetString("database.dsn") == "" {
		return errors.New("database.dsn is required for the postgres driver")
	}

	if v.GetString("library.media_dir") == "" {
		return errors.New("library.media_dir can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
