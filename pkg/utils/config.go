package utils

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, read from CARDHUB_*
// environment variables with sensible local defaults.
type Config struct {
	DBPath      string
	ListenAddr  string
	LigaBaseURL string
	ImageDir    string
	Debug       bool
}

func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("cardhub")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}

	v.SetDefault("db_path", filepath.Join(home, ".cardhub", "data.db"))
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("liga_base_url", "https://www.ligapokemon.com.br")
	v.SetDefault("image_dir", filepath.Join(home, ".cardhub", "images"))
	v.SetDefault("debug", false)

	return Config{
		DBPath:      v.GetString("db_path"),
		ListenAddr:  v.GetString("listen_addr"),
		LigaBaseURL: v.GetString("liga_base_url"),
		ImageDir:    v.GetString("image_dir"),
		Debug:       v.GetBool("debug"),
	}
}
