package main

import (
	"fmt"
	"math"
	"os"

	"github.com/ChristopherRabotin/partials"
	"github.com/ChristopherRabotin/partials/atmosphere"
	"github.com/charmbracelet/lipgloss"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	logLevel   string
	yamlOut    string
	configDir  string
	minAlt     float64
	maxAlt     float64
	samples    int
	atDensity  float64
	plotHeight int

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "partials",
		Short:        "acceleration partials for orbit determination",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, none), overrides the configuration")

	jacobianCmd := &cobra.Command{
		Use:   "jacobian [scenario.toml]",
		Short: "compute the aerodynamic and gravity partials of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runJacobian,
	}
	jacobianCmd.Flags().StringVar(&yamlOut, "yaml", "", "also write the partials to this YAML file")

	atmosphereCmd := &cobra.Command{
		Use:   "atmosphere",
		Short: "plot the density profile of the configured atmosphere",
		Args:  cobra.NoArgs,
		RunE:  runAtmosphere,
	}
	atmosphereCmd.Flags().StringVar(&configDir, "config", "", "directory of conf.toml (defaults to $"+partials.ConfigEnv+")")
	atmosphereCmd.Flags().Float64Var(&minAlt, "min", 100e3, "minimum altitude (m)")
	atmosphereCmd.Flags().Float64Var(&maxAlt, "max", 1000e3, "maximum altitude (m)")
	atmosphereCmd.Flags().IntVar(&samples, "samples", 80, "number of samples")
	atmosphereCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	atmosphereCmd.Flags().Float64Var(&atDensity, "density", 0, "also find the altitude of this density (kg/m^3)")

	rootCmd.AddCommand(jacobianCmd, atmosphereCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command, conf partials.Config) (kitlog.Logger, error) {
	if cmd.Flags().Changed("log-level") {
		conf.LogLevel = logLevel
	}
	return conf.Logger(os.Stderr)
}

func runJacobian(cmd *cobra.Command, args []string) error {
	s, err := readScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, s.conf)
	if err != nil {
		return err
	}
	res, err := computeJacobian(s, logger)
	if err != nil {
		return err
	}
	fmt.Print(res)
	if yamlOut == "" {
		return nil
	}
	data, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	return os.WriteFile(yamlOut, data, 0o644)
}

func runAtmosphere(cmd *cobra.Command, args []string) error {
	var conf partials.Config
	var err error
	if configDir != "" {
		conf, err = partials.LoadConfig(configDir, "conf")
	} else {
		conf, err = partials.ConfigFromEnv()
	}
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, conf)
	if err != nil {
		return err
	}
	model, err := conf.Atmosphere.DensityModel()
	if err != nil {
		return err
	}
	profile, err := densityProfile(model, minAlt, maxAlt, samples)
	if err != nil {
		return err
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%v", model)))
	fmt.Println(asciigraph.Plot(profile,
		asciigraph.Height(plotHeight),
		asciigraph.Width(samples),
		asciigraph.Caption(fmt.Sprintf("log10 density (kg/m^3) from %.0f to %.0f km", minAlt/1e3, maxAlt/1e3))))

	if table, ok := model.(*atmosphere.Tabulated); ok {
		for _, h := range []float64{minAlt, maxAlt} {
			p, perr := table.Pressure(h)
			T, terr := table.Temperature(h)
			if perr != nil || terr != nil {
				continue
			}
			fmt.Printf("%s p=%g Pa T=%.2f K\n", labelStyle.Render(fmt.Sprintf("%.0f km", h/1e3)), p, T)
		}
	}
	if atDensity > 0 {
		h, err := atmosphere.AltitudeAtDensity(model, atDensity, minAlt, maxAlt)
		if err != nil {
			return err
		}
		level.Info(logger).Log("msg", "altitude found", "density", atDensity, "altitude", h)
		fmt.Printf("%s %.3f km\n", labelStyle.Render(fmt.Sprintf("ρ=%g kg/m^3 at", atDensity)), h/1e3)
	}
	return nil
}

// densityProfile samples log10 of the density between both altitudes.
func densityProfile(model atmosphere.DensityModel, lo, hi float64, n int) ([]float64, error) {
	if n < 2 || !(hi > lo) {
		return nil, fmt.Errorf("invalid profile: %d samples in [%f, %f]", n, lo, hi)
	}
	profile := make([]float64, n)
	for i := range profile {
		h := lo + float64(i)*(hi-lo)/float64(n-1)
		ρ, err := model.Density(h)
		if err != nil {
			return nil, err
		}
		profile[i] = math.Log10(ρ)
	}
	return profile, nil
}
