package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding/htmlindex"
)

// Config holds the full application configuration.
type Config struct {
	Input      InputConfig      `yaml:"input" mapstructure:"input"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Screenshot ScreenshotConfig `yaml:"screenshot" mapstructure:"screenshot"`
	Workbook   WorkbookConfig   `yaml:"workbook" mapstructure:"workbook"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the population estimates and the town boundaries.
type InputConfig struct {
	CSV       string `yaml:"csv" mapstructure:"csv"`
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
	StateFP   string `yaml:"state_fp" mapstructure:"state_fp"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"` // CSV text encoding, WHATWG label
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`       // XLSX sheet name; empty reads the first
}

// OutputConfig configures where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ReportConfig configures the table and map reports.
type ReportConfig struct {
	TopN       int    `yaml:"top_n" mapstructure:"top_n"`
	PageLength int    `yaml:"page_length" mapstructure:"page_length"`
	Year       int    `yaml:"year" mapstructure:"year"`
	TileURL    string `yaml:"tile_url" mapstructure:"tile_url"`
}

// ExportConfig configures HTML serialization and asset fetching.
type ExportConfig struct {
	AssetCacheDir string `yaml:"asset_cache_dir" mapstructure:"asset_cache_dir"`
	TempDir       string `yaml:"temp_dir" mapstructure:"temp_dir"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// ScreenshotConfig configures PNG rasterization of the ranking tables.
type ScreenshotConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Zoom        float64 `yaml:"zoom" mapstructure:"zoom"`
	Width       int64   `yaml:"width" mapstructure:"width"`
	Height      int64   `yaml:"height" mapstructure:"height"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ChromePath  string  `yaml:"chrome_path" mapstructure:"chrome_path"`
}

// WorkbookConfig configures the optional XLSX workbook of all tables.
type WorkbookConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	File    string `yaml:"file" mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.csv", "data/pep2024_maine_towns.csv")
	v.SetDefault("input.shapefile", "data/tl_2024_23_cousub.shp")
	v.SetDefault("input.state_fp", "23")
	v.SetDefault("input.encoding", "utf-8")
	v.SetDefault("input.sheet", "")
	v.SetDefault("output.dir", "output")
	v.SetDefault("report.top_n", 10)
	v.SetDefault("report.page_length", 25)
	v.SetDefault("report.year", 2024)
	v.SetDefault("report.tile_url", "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png")
	v.SetDefault("export.asset_cache_dir", "")
	v.SetDefault("export.temp_dir", "")
	v.SetDefault("export.timeout_secs", 30)
	v.SetDefault("export.max_retries", 3)
	v.SetDefault("screenshot.enabled", true)
	v.SetDefault("screenshot.zoom", 2.0)
	v.SetDefault("screenshot.width", 1000)
	v.SetDefault("screenshot.height", 800)
	v.SetDefault("screenshot.timeout_secs", 60)
	v.SetDefault("screenshot.chrome_path", "")
	v.SetDefault("workbook.enabled", false)
	v.SetDefault("workbook.file", "maine_towns.xlsx")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a report needs before any file is read.
func (c *Config) Validate() error {
	var problems []string
	if c.Input.CSV == "" {
		problems = append(problems, "input.csv is required")
	}
	if c.Input.Encoding != "" {
		if _, err := htmlindex.Get(c.Input.Encoding); err != nil {
			problems = append(problems, fmt.Sprintf("input.encoding %q is not a known encoding", c.Input.Encoding))
		}
	}
	if c.Output.Dir == "" {
		problems = append(problems, "output.dir is required")
	}
	if c.Report.TopN <= 0 {
		problems = append(problems, "report.top_n must be positive")
	}
	if c.Report.PageLength <= 0 {
		problems = append(problems, "report.page_length must be positive")
	}
	if c.Screenshot.Enabled && c.Screenshot.Zoom <= 0 {
		problems = append(problems, "screenshot.zoom must be positive")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
