package partials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChristopherRabotin/partials/atmosphere"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
)

func writeConf(t *testing.T, contents string) string {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestConfigDefaults(t *testing.T) {
	conf, err := LoadConfig(writeConf(t, "# nothing set\n"), "conf")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(conf.Steps, UniformSteps(DefaultPositionStep, DefaultVelocityStep)) {
		t.Fatalf("incorrect default steps %v", conf.Steps)
	}
	if conf.LogLevel != "info" || conf.Atmosphere.Table != "" || conf.Atmosphere.Extrapolate {
		t.Fatalf("incorrect defaults %+v", conf)
	}
	if _, err := conf.Atmosphere.DensityModel(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error without an atmosphere, got %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	dir := writeConf(t, `
[partials]
steps = [1.0, 2.0, 3.0, 0.1, 0.2, 0.3]

[log]
level = "debug"

[atmosphere]
base_altitude = 400e3
base_density = 3.7e-12
scale_height = 58.5e3
`)
	t.Setenv(ConfigEnv, dir)
	conf, err := ConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(conf.Steps, []float64{1, 2, 3, 0.1, 0.2, 0.3}) {
		t.Fatalf("incorrect steps %v", conf.Steps)
	}
	if _, err := conf.Logger(os.Stderr); err != nil || conf.LogLevel != "debug" {
		t.Fatalf("incorrect logger configuration %s (%v)", conf.LogLevel, err)
	}
	model, err := conf.Atmosphere.DensityModel()
	if err != nil {
		t.Fatal(err)
	}
	exp := atmosphere.Exponential{BaseAltitude: 400e3, BaseDensity: 3.7e-12, ScaleHeight: 58.5e3}
	if model != exp {
		t.Fatalf("incorrect atmosphere %+v", model)
	}

	t.Setenv(ConfigEnv, "")
	if _, err := ConfigFromEnv(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error, got %v", err)
	}
	t.Setenv(ConfigEnv, t.TempDir())
	if _, err := ConfigFromEnv(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error for a missing file, got %v", err)
	}
}

func TestConfigUniformSteps(t *testing.T) {
	conf, err := LoadConfig(writeConf(t, "[partials]\nposition_step = 10.0\nvelocity_step = 0.01\n"), "conf")
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(conf.Steps, UniformSteps(10, 0.01)) {
		t.Fatalf("incorrect steps %v", conf.Steps)
	}
}

func TestConfigInvalid(t *testing.T) {
	for _, contents := range []string{
		"[partials]\nsteps = [1.0, 2.0, 3.0]\n",
		"[partials]\nsteps = [0.0, 1.0, 1.0, 1.0, 1.0, 1.0]\n",
		"[partials]\nsteps = \"small\"\n",
		"[partials]\nsteps = [\"a\", \"b\", \"c\", \"d\", \"e\", \"f\"]\n",
		"[partials]\nvelocity_step = 0.0\n",
	} {
		if _, err := LoadConfig(writeConf(t, contents), "conf"); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("expected an invalid configuration error for %q, got %v", contents, err)
		}
	}
	conf := Config{LogLevel: "chatty"}
	if _, err := conf.Logger(os.Stderr); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error, got %v", err)
	}
}

func TestConfigTabulatedAtmosphere(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "atmosphere.txt")
	if err := os.WriteFile(table, []byte("0 1.225 101325 288.15\n100e3 5.6e-7 0.032 195.08\n200e3 2.5e-10 8.5e-5 854.8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf, err := LoadConfig(writeConf(t, "[atmosphere]\ntable = \""+table+"\"\nextrapolate = true\n"), "conf")
	if err != nil {
		t.Fatal(err)
	}
	model, err := conf.Atmosphere.DensityModel()
	if err != nil {
		t.Fatal(err)
	}
	ρ, err := model.Density(300e3)
	if err != nil {
		t.Fatal(err)
	}
	if ρ != 2.5e-10 {
		t.Fatalf("extrapolation should hold the last density, got %g", ρ)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "conf")
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected an invalid configuration error, got %v", err)
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("viper error not wrapped: %v", err)
	}
}
