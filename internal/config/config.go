package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mapgrid/georef/pkg/crs"
	"github.com/mapgrid/georef/pkg/georef"
)

// Config holds the full application configuration.
type Config struct {
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	CRS    CRSConfig    `yaml:"crs" mapstructure:"crs"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// MapConfig configures the map-side defaults of the georeferencing.
type MapConfig struct {
	ScaleDenominator uint    `yaml:"scale_denominator" mapstructure:"scale_denominator"`
	Declination      float64 `yaml:"declination" mapstructure:"declination"`
}

// CRSConfig selects the projected coordinate reference system. Spec is a
// literal proj.4 string; when empty, Template and Parameters are resolved
// through the CRS registry instead.
type CRSConfig struct {
	Spec       string   `yaml:"spec" mapstructure:"spec"`
	Template   string   `yaml:"template" mapstructure:"template"`
	Parameters []string `yaml:"parameters" mapstructure:"parameters"`
}

// ExportConfig configures feature export.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	Dir    string `yaml:"dir" mapstructure:"dir"`
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
	v.SetEnvPrefix("GEOREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("map.scale_denominator", georef.DefaultScaleDenominator)
	v.SetDefault("map.declination", 0.0)
	v.SetDefault("crs.template", "UTM")
	v.SetDefault("export.format", "geojson")
	v.SetDefault("export.dir", ".")
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

// CRSSpecification resolves the configured CRS to an identifier and a
// proj.4 specification string. A literal spec wins over a template.
func (c *Config) CRSSpecification() (id, spec string, err error) {
	if c.CRS.Spec != "" {
		return "PROJ.4", c.CRS.Spec, nil
	}
	tmpl, ok := crs.Find(c.CRS.Template)
	if !ok {
		return "", "", eris.Errorf("config: unknown CRS template %q", c.CRS.Template)
	}
	if len(c.CRS.Parameters) != len(tmpl.Parameters()) {
		return "", "", eris.Errorf("config: CRS template %q needs %d parameters, got %d",
			c.CRS.Template, len(tmpl.Parameters()), len(c.CRS.Parameters))
	}
	return tmpl.ID(), tmpl.Specification(c.CRS.Parameters...), nil
}

// Validate checks the configuration for the given command mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Map.ScaleDenominator == 0 {
		problems = append(problems, "map.scale_denominator must be > 0")
	}

	switch mode {
	case "convert", "track":
		if c.CRS.Spec == "" && c.CRS.Template == "" {
			problems = append(problems, "crs.spec or crs.template is required")
		}
	case "export":
		if c.CRS.Spec == "" && c.CRS.Template == "" {
			problems = append(problems, "crs.spec or crs.template is required")
		}
		if c.Export.Format != "geojson" && c.Export.Format != "shapefile" {
			problems = append(problems, "export.format must be geojson or shapefile")
		}
	case "templates", "distance":
		// Purely registry or geodesic work; no CRS requirement.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
