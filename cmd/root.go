package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ablejobs/matchcore/internal/ai"
	"github.com/ablejobs/matchcore/internal/batch"
	"github.com/ablejobs/matchcore/internal/heuristic"
	"github.com/ablejobs/matchcore/internal/people"
	"github.com/ablejobs/matchcore/internal/store"
)

const (
	app = "matchcore"

	envDevelopment = "development"
	envProduction  = "production"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	Store       store.Config     `mapstructure:"store"`
	AI          *AIConfig        `mapstructure:"ai"`
	Heuristic   *HeuristicConfig `mapstructure:"heuristic"`
	People      *PeopleConfig    `mapstructure:"people"`
	HTTP        *HTTPConfig      `mapstructure:"http"`
}

type AIConfig struct {
	Enabled      bool              `mapstructure:"enabled"`
	Provider     string            `mapstructure:"provider"`
	CallTimeout  string            `mapstructure:"call-timeout"`
	Concurrency  int               `mapstructure:"concurrency"`
	MaxLogLength int               `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig     `mapstructure:"gemini"`
	OpenRouter   *OpenRouterConfig `mapstructure:"openrouter"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OpenRouterConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type HeuristicConfig struct {
	Weights heuristic.Weights    `mapstructure:"weights"`
	Reasons heuristic.ReasonPool `mapstructure:"reasons"`
}

type PeopleConfig struct {
	Weights people.Weights `mapstructure:"weights"`
}

type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "matchcore scores job applicants and suggests people to connect with",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	viper.SetEnvPrefix(strings.ToUpper(app))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("ai.gemini.api-key", "MATCHCORE_AI_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.openrouter.api-key", "MATCHCORE_AI_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"); err != nil {
		log.Fatalf("binding OPENROUTER_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchcore.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("environment", envProduction)

	viper.SetDefault("store.backend", "file")
	viper.SetDefault("store.file", "matchcore-data.json")

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.call-timeout", ai.DefaultCallTimeout.String())
	viper.SetDefault("ai.concurrency", batch.DefaultConcurrency)

	hw := heuristic.DefaultWeights()
	viper.SetDefault("heuristic.weights.skills", hw.Skills)
	viper.SetDefault("heuristic.weights.requirements", hw.Requirements)
	viper.SetDefault("heuristic.weights.accessibility", hw.Accessibility)

	pw := people.DefaultWeights()
	viper.SetDefault("people.weights.interests", pw.Interests)
	viper.SetDefault("people.weights.activity", pw.Activity)
	viper.SetDefault("people.weights.goal", pw.Goal)
	viper.SetDefault("people.weights.completeness", pw.Completeness)

	viper.SetDefault("http.listen", ":8080")
}

func initConfig() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without an explicit --config the defaults and environment are enough.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
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

	return config, nil
}
