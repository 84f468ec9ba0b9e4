package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talentscout/internal/metrics"
	"github.com/spigell/talentscout/internal/storage/jsonl"
)

const (
	app = "talentscout"
)

type Config struct {
	LLM              *LLMConfig     `mapstructure:"llm"`
	Storage          *StorageConfig `mapstructure:"storage"`
	Server           *ServerConfig  `mapstructure:"server"`
	Consent          bool           `mapstructure:"consent"`
	MetricsNamespace string         `mapstructure:"metrics-namespace"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base-url"`
	APIKeyFile  string        `mapstructure:"api-key-file"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max-tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database-url"`
	RedisAddr   string `mapstructure:"redis-addr"`
	RedisKey    string `mapstructure:"redis-key"`
}

type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	IdleTimeout time.Duration `mapstructure:"idle-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a conversational intake assistant that screens technical candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"llm.provider":         "TALENTSCOUT_LLM_PROVIDER",
		"llm.base-url":         "OPENAI_BASE_URL",
		"llm.model":            "OPENAI_MODEL",
		"storage.database-url": "DATABASE_URL",
		"storage.redis-addr":   "REDIS_ADDR",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.max-tokens", 60)
	viper.SetDefault("llm.timeout", 15*time.Second)
	viper.SetDefault("storage.driver", "jsonl")
	viper.SetDefault("storage.path", jsonl.DefaultPath)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.idle-timeout", 30*time.Minute)
	viper.SetDefault("metrics-namespace", metrics.DefaultNamespace)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("llm-provider", "", "language model provider: openai, gemini, anthropic or none")
	rootCmd.PersistentFlags().String("storage-driver", "", "where finished interviews are stored: jsonl, postgres, redis or none")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	viper.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage-driver"))
}

func initConfig() {
	// A missing .env file is fine, everything can come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			// We can't proceed if the config file parsed with error.
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
