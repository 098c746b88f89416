// Package config loads service configuration from defaults, an optional
// YAML file, MUTARJIM_-prefixed environment variables, and command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyEnvironment      = "environment"
	KeyListen           = "listen"
	KeyChunkTokens      = "chunk-tokens"
	KeyWorkers          = "workers"
	KeyEngine           = "engine"
	KeyOpenAIAPIKey     = "openai.api-key"
	KeyOpenAIModel      = "openai.model"
	KeyOpenAIBaseURL    = "openai.base-url"
	KeyLambdaEn2Ar      = "lambda.en2ar"
	KeyLambdaAr2En      = "lambda.ar2en"
	KeyStore            = "store"
	KeySQLitePath       = "sqlite-path"
	KeyOutputDir        = "output-dir"
	KeyTaskWorkers      = "task-workers"
	KeyRateLimit        = "rate-limit"
	KeyRateBurst        = "rate-burst"
	KeyRequestTimeout   = "request-timeout"
	KeyBreakerThreshold = "breaker-threshold"
	KeyVerbose          = "verbose"
)

// Engine selector values.
const (
	EngineLambda = "lambda"
	EngineOpenAI = "openai"
)

// Store selector values.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// EnvOpenAIKey is the conventional unprefixed API key variable, honored
// when the prefixed forms are absent.
const EnvOpenAIKey = "OPENAI_API_KEY"

// Config is the resolved service configuration.
type Config struct {
	Environment string
	Listen      string
	ChunkTokens int
	Workers     int

	Engine        string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LambdaEn2Ar   string
	LambdaAr2En   string

	Store       string
	SQLitePath  string
	OutputDir   string
	TaskWorkers int

	RateLimit        float64
	RateBurst        int
	RequestTimeout   time.Duration
	BreakerThreshold int
	Verbose          bool
}

// Load resolves the configuration. cfgFile, when non-empty, replaces the
// default search path (`mutarjim.yaml` in `.` and `$HOME/.config/mutarjim`)
// and must exist. flags may be nil; flags the set does not define are
// simply not bound.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("mutarjim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mutarjim"))
		}
	}

	v.SetEnvPrefix("MUTARJIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Environment: v.GetString(KeyEnvironment),
		Listen:      v.GetString(KeyListen),
		ChunkTokens: v.GetInt(KeyChunkTokens),
		Workers:     v.GetInt(KeyWorkers),

		Engine:        strings.ToLower(v.GetString(KeyEngine)),
		OpenAIAPIKey:  v.GetString(KeyOpenAIAPIKey),
		OpenAIModel:   v.GetString(KeyOpenAIModel),
		OpenAIBaseURL: v.GetString(KeyOpenAIBaseURL),
		LambdaEn2Ar:   v.GetString(KeyLambdaEn2Ar),
		LambdaAr2En:   v.GetString(KeyLambdaAr2En),

		Store:       strings.ToLower(v.GetString(KeyStore)),
		SQLitePath:  v.GetString(KeySQLitePath),
		OutputDir:   v.GetString(KeyOutputDir),
		TaskWorkers: v.GetInt(KeyTaskWorkers),

		RateLimit:        v.GetFloat64(KeyRateLimit),
		RateBurst:        v.GetInt(KeyRateBurst),
		RequestTimeout:   v.GetDuration(KeyRequestTimeout),
		BreakerThreshold: v.GetInt(KeyBreakerThreshold),
		Verbose:          v.GetBool(KeyVerbose),
	}

	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv(EnvOpenAIKey)
	}

	return cfg, cfg.validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnvironment, "dev")
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyChunkTokens, 512)
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyEngine, EngineLambda)
	v.SetDefault(KeyOpenAIModel, "gpt-4o-mini")
	v.SetDefault(KeyStore, StoreMemory)
	v.SetDefault(KeySQLitePath, "mutarjim.db")
	v.SetDefault(KeyOutputDir, "translated_files")
	v.SetDefault(KeyTaskWorkers, 2)
	v.SetDefault(KeyRateLimit, 10)
	v.SetDefault(KeyRateBurst, 20)
	v.SetDefault(KeyRequestTimeout, 5*time.Minute)
	v.SetDefault(KeyBreakerThreshold, 5)
	v.SetDefault(KeyVerbose, false)
	// lambda.en2ar / lambda.ar2en have no static default: unset means
	// "derive from the environment name".
}

// bindFlags maps dashed flag names onto (possibly dotted) config keys.
// Only flags the set actually defines are bound.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyEnvironment:      "environment",
		KeyListen:           "listen",
		KeyChunkTokens:      "chunk-tokens",
		KeyWorkers:          "workers",
		KeyEngine:           "engine",
		KeyOpenAIAPIKey:     "openai-api-key",
		KeyOpenAIModel:      "openai-model",
		KeyOpenAIBaseURL:    "openai-base-url",
		KeyLambdaEn2Ar:      "lambda-en2ar",
		KeyLambdaAr2En:      "lambda-ar2en",
		KeyStore:            "store",
		KeySQLitePath:       "sqlite-path",
		KeyOutputDir:        "output-dir",
		KeyTaskWorkers:      "task-workers",
		KeyRateLimit:        "rate-limit",
		KeyRateBurst:        "rate-burst",
		KeyRequestTimeout:   "request-timeout",
		KeyBreakerThreshold: "breaker-threshold",
		KeyVerbose:          "verbose",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validate() error {
	if c.Engine != EngineLambda && c.Engine != EngineOpenAI {
		return fmt.Errorf("unknown engine %q (use %q or %q)", c.Engine, EngineLambda, EngineOpenAI)
	}
	if c.Store != StoreMemory && c.Store != StoreSQLite {
		return fmt.Errorf("unknown store %q (use %q or %q)", c.Store, StoreMemory, StoreSQLite)
	}
	return nil
}
