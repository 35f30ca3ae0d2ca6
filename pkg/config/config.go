package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xaenox/chatlog-analytics/internal/classifier"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Lexicon   LexiconConfig   `mapstructure:"lexicon"`
	Report    ReportConfig    `mapstructure:"report"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
	// SeedFile is a JSON array of events loaded into the store at startup.
	SeedFile string `mapstructure:"seed_file"`
}

type AnalyticsConfig struct {
	ForceID              string `mapstructure:"force_id"`
	DefaultDays          int    `mapstructure:"default_days"`
	RecentLimit          int    `mapstructure:"recent_limit"`
	TopThemesLimit       int    `mapstructure:"top_themes_limit"`
	UnmatchedSampleLimit int    `mapstructure:"unmatched_sample_limit"`
	QuestionsLimit       int    `mapstructure:"questions_limit"`
}

// LexiconConfig overrides the built-in keyword tables. Empty lists keep
// the defaults.
type LexiconConfig struct {
	Themes         []string                  `mapstructure:"themes"`
	Sources        []classifier.SourceBucket `mapstructure:"sources"`
	FallbackSource string                    `mapstructure:"fallback_source"`
}

type ReportConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	ChatID        int64  `mapstructure:"chat_id"`
	// Days is the lookback window of the report, ending at midnight UTC.
	Days int `mapstructure:"days"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// ThemeLexicon returns the configured theme lexicon or the default one.
func (c LexiconConfig) ThemeLexicon() *classifier.ThemeLexicon {
	if len(c.Themes) == 0 {
		return classifier.DefaultThemeLexicon()
	}
	return classifier.NewThemeLexicon(c.Themes)
}

// SourceLexicon returns the configured source lexicon or the default one.
func (c LexiconConfig) SourceLexicon() *classifier.SourceLexicon {
	buckets := c.Sources
	if len(buckets) == 0 {
		buckets = classifier.DefaultSourceBuckets()
	}
	return classifier.NewSourceLexicon(buckets, c.FallbackSource)
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  sslMode,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("database.seed_file", "")

	v.SetDefault("analytics.default_days", 7)
	v.SetDefault("analytics.recent_limit", 20)
	v.SetDefault("analytics.top_themes_limit", 5)
	v.SetDefault("analytics.unmatched_sample_limit", 20)
	v.SetDefault("analytics.questions_limit", 50)

	v.SetDefault("lexicon.fallback_source", classifier.DefaultFallbackSource)

	v.SetDefault("report.days", 1)

	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 150)
	v.SetDefault("openai.temperature", 0.7)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		dbConfig.SeedFile = config.Database.SeedFile
		config.Database = dbConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Report.TelegramToken = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	return &config, nil
}
