package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/eringen/echofield"
	"github.com/eringen/echofield/content"
	"github.com/eringen/echofield/imagevariant"
	"github.com/eringen/echofield/storage"
)

const envPrefix = "ECHOFIELD"

// newViper returns a viper instance reading ECHOFIELD_* variables, with
// nested keys mapped to underscores (s3.bucket -> ECHOFIELD_S3_BUCKET).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", "EchoField")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("addr", ":3000")
	v.SetDefault("database_path", "data/echofield.db")
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("page_size", 20)
	v.SetDefault("default_lang", "en")
	v.SetDefault("storage", "filesystem")
	v.SetDefault("media_dir", "media")
	v.SetDefault("media_url", "/media/")
	v.SetDefault("static_dir", "public")
	v.SetDefault("variants", "1x=1280,2x=2048")
	v.SetDefault("webp_quality", imagevariant.DefaultQuality)
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.prefix", "media")
	v.SetDefault("log_level", "info")
	return v
}

// loadConfig reads the optional config file and builds the site config.
func loadConfig(v *viper.Viper) (echofield.SiteConfig, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return echofield.SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	lang, err := content.ParseLang(v.GetString("default_lang"))
	if err != nil {
		return echofield.SiteConfig{}, err
	}
	variants, err := imagevariant.ParseVariants(v.GetString("variants"))
	if err != nil {
		return echofield.SiteConfig{}, err
	}

	return echofield.SiteConfig{
		Name:          v.GetString("name"),
		URL:           v.GetString("url"),
		Description:   v.GetString("description"),
		Author:        v.GetString("author"),
		Addr:          v.GetString("addr"),
		DatabasePath:  v.GetString("database_path"),
		AdminPassword: v.GetString("admin_password"),
		SessionSecret: v.GetString("session_secret"),
		CookieSecure:  v.GetBool("cookie_secure"),
		PostCacheTTL:  v.GetDuration("cache_ttl"),
		PageSize:      v.GetInt("page_size"),
		DefaultLang:   lang,
		Storage:       v.GetString("storage"),
		MediaDir:      v.GetString("media_dir"),
		MediaURL:      v.GetString("media_url"),
		S3: storage.S3Config{
			Bucket:          v.GetString("s3.bucket"),
			Endpoint:        v.GetString("s3.endpoint"),
			Region:          v.GetString("s3.region"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
			Prefix:          v.GetString("s3.prefix"),
			PublicURL:       v.GetString("s3.public_url"),
		},
		Variants:    variants,
		WebPQuality: v.GetInt("webp_quality"),
	}, nil
}

// setupLogger configures the global zerolog logger and returns it.
func setupLogger(v *viper.Viper) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log_level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if v.GetBool("debug") {
		level = zerolog.DebugLevel
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(level)
	return log.Logger
}
