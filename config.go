package partials

import (
	"fmt"
	"io"
	"os"

	"github.com/ChristopherRabotin/partials/atmosphere"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// ConfigEnv is the environment variable pointing to the directory of conf.toml.
	ConfigEnv = "PARTIALS_CONFIG"
	// DefaultPositionStep is the default position perturbation in m.
	DefaultPositionStep = 1.0
	// DefaultVelocityStep is the default velocity perturbation in m/s.
	DefaultVelocityStep = 1e-3
)

// Config is the configuration of the partials: perturbation steps, atmosphere and logging.
type Config struct {
	Steps      []float64
	LogLevel   string
	Atmosphere AtmosphereConfig
}

// AtmosphereConfig selects a tabulated atmosphere if Table is set, and an exponential one otherwise.
type AtmosphereConfig struct {
	Table        string
	Extrapolate  bool
	BaseAltitude float64
	BaseDensity  float64
	ScaleHeight  float64
}

// LoadConfig reads the configuration named `name` (without extension) from the provided directory.
func LoadConfig(dir, name string) (Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %s/%s: %w", ErrInvalidConfiguration, dir, name, err)
	}
	return ConfigFromViper(v)
}

// ConfigFromEnv loads conf.toml from the directory set in the PARTIALS_CONFIG environment variable.
func ConfigFromEnv() (Config, error) {
	confPath := os.Getenv(ConfigEnv)
	if confPath == "" {
		return Config{}, fmt.Errorf("%w: environment variable `%s` is missing or empty", ErrInvalidConfiguration, ConfigEnv)
	}
	return LoadConfig(confPath, "conf")
}

// ConfigFromViper reads the configuration from an already loaded viper instance.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("partials.position_step", DefaultPositionStep)
	v.SetDefault("partials.velocity_step", DefaultVelocityStep)
	v.SetDefault("log.level", "info")
	v.SetDefault("atmosphere.extrapolate", false)

	conf := Config{LogLevel: v.GetString("log.level")}
	if v.IsSet("partials.steps") {
		steps, err := float64Slice(v.Get("partials.steps"))
		if err != nil {
			return Config{}, fmt.Errorf("%w: partials.steps: %w", ErrInvalidConfiguration, err)
		}
		conf.Steps = steps
	} else {
		conf.Steps = UniformSteps(v.GetFloat64("partials.position_step"), v.GetFloat64("partials.velocity_step"))
	}
	if err := validateSteps(conf.Steps, 6); err != nil {
		return Config{}, err
	}
	conf.Atmosphere = AtmosphereConfig{
		Table:        v.GetString("atmosphere.table"),
		Extrapolate:  v.GetBool("atmosphere.extrapolate"),
		BaseAltitude: v.GetFloat64("atmosphere.base_altitude"),
		BaseDensity:  v.GetFloat64("atmosphere.base_density"),
		ScaleHeight:  v.GetFloat64("atmosphere.scale_height"),
	}
	return conf, nil
}

// float64Slice converts a TOML array to floats.
func float64Slice(val interface{}) ([]float64, error) {
	items, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", val)
	}
	floats := make([]float64, len(items))
	for i, item := range items {
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, err
		}
		floats[i] = f
	}
	return floats, nil
}

// Logger returns the logger configured at the configured level.
func (c Config) Logger(w io.Writer) (kitlog.Logger, error) {
	return NewLogger(w, c.LogLevel)
}

// DensityModel builds the configured atmosphere.
func (c AtmosphereConfig) DensityModel() (atmosphere.DensityModel, error) {
	if c.Table != "" {
		var opts []atmosphere.Option
		if c.Extrapolate {
			opts = append(opts, atmosphere.WithExtrapolation())
		}
		return atmosphere.LoadTabulated(c.Table, opts...)
	}
	if !(c.ScaleHeight > 0) || !(c.BaseDensity > 0) {
		return nil, fmt.Errorf("%w: exponential atmosphere requires a positive base density and scale height", ErrInvalidConfiguration)
	}
	return atmosphere.Exponential{BaseAltitude: c.BaseAltitude, BaseDensity: c.BaseDensity, ScaleHeight: c.ScaleHeight}, nil
}
