package backtest

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/event-trading/internal/execution/commission"
	"github.com/rxtech-lab/event-trading/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the run parameters for a backtest.
type Config struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	// OrderSize is the base quantity ordered for a full-strength signal.
	OrderSize  float64           `yaml:"order_size" json:"order_size" validate:"gt=0" jsonschema:"title=Order Size,description=Base quantity per full-strength signal"`
	Commission commission.Scheme `yaml:"commission" json:"commission" jsonschema:"title=Commission,description=The commission scheme applied to fills"`
	// HeartbeatSeconds is the pause between timesteps; zero for historic
	// runs, positive when pacing a live feed.
	HeartbeatSeconds float64 `yaml:"heartbeat_seconds" json:"heartbeat_seconds" validate:"gte=0" jsonschema:"title=Heartbeat Seconds,description=Pause between timesteps in seconds,minimum=0"`
	// PeriodsPerYear annualizes the Sharpe ratio; 252 for daily bars.
	PeriodsPerYear float64                    `yaml:"periods_per_year" json:"periods_per_year" validate:"gt=0" jsonschema:"title=Periods Per Year,description=Return periods per year used to annualize the Sharpe ratio,minimum=1"`
	OutputDir      string                     `yaml:"output_dir" json:"output_dir" jsonschema:"title=Output Directory,description=Directory receiving the equity curve and summary files"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling for Config.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		InitialCapital   float64           `yaml:"initial_capital"`
		OrderSize        float64           `yaml:"order_size"`
		Commission       commission.Scheme `yaml:"commission"`
		HeartbeatSeconds float64           `yaml:"heartbeat_seconds"`
		PeriodsPerYear   float64           `yaml:"periods_per_year"`
		OutputDir        string            `yaml:"output_dir"`
		StartTime        *time.Time        `yaml:"start_time"`
		EndTime          *time.Time        `yaml:"end_time"`
	}

	// Seed from the receiver so keys absent from the document keep their
	// existing (default) values.
	config := plainConfig{
		InitialCapital:   c.InitialCapital,
		OrderSize:        c.OrderSize,
		Commission:       c.Commission,
		HeartbeatSeconds: c.HeartbeatSeconds,
		PeriodsPerYear:   c.PeriodsPerYear,
		OutputDir:        c.OutputDir,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.OrderSize = config.OrderSize
	c.Commission = config.Commission
	c.HeartbeatSeconds = config.HeartbeatSeconds
	c.PeriodsPerYear = config.PeriodsPerYear
	c.OutputDir = config.OutputDir

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks the config against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	return nil
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// DefaultConfig returns a Config with runnable defaults.
func DefaultConfig() Config {
	return Config{
		InitialCapital:   100000,
		OrderSize:        100,
		Commission:       commission.SchemeZero,
		HeartbeatSeconds: 0,
		PeriodsPerYear:   252,
		OutputDir:        "results",
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}

// GenerateSchema generates a JSON schema for the Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "commission.Scheme") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission.AllSchemes,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for the backtest runner"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
