package atmosphere

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/interp"
)

// Tabulated is an atmosphere defined by a table of altitude (m), density (kg/m^3),
// pressure (Pa) and temperature (K). Each column is interpolated in altitude with a
// monotone piecewise cubic (Fritsch-Butland), so a monotone column stays monotone.
type Tabulated struct {
	source                         string
	minAlt, maxAlt                 float64
	extrapolate                    bool
	density, pressure, temperature interp.FritschButland
}

// Option configures a tabulated atmosphere.
type Option func(*Tabulated)

// WithExtrapolation allows queries outside of the table, which return the value at the closest
// table boundary instead of an ErrOutOfDomain error.
func WithExtrapolation() Option {
	return func(t *Tabulated) {
		t.extrapolate = true
	}
}

// NewTabulated builds the interpolants of the provided columns. Altitudes must be strictly
// increasing and there must be at least three rows.
func NewTabulated(altitude, density, pressure, temperature []float64, opts ...Option) (*Tabulated, error) {
	n := len(altitude)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d rows, need at least 3", ErrInvalidTable, n)
	}
	if len(density) != n || len(pressure) != n || len(temperature) != n {
		return nil, fmt.Errorf("%w: columns of different lengths", ErrInvalidTable)
	}
	for i := 1; i < n; i++ {
		if !(altitude[i] > altitude[i-1]) {
			return nil, fmt.Errorf("%w: altitudes not strictly increasing at row %d", ErrInvalidTable, i)
		}
	}
	t := &Tabulated{source: "memory", minAlt: altitude[0], maxAlt: altitude[n-1]}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.density.Fit(altitude, density); err != nil {
		return nil, fmt.Errorf("%w: density: %w", ErrInvalidTable, err)
	}
	if err := t.pressure.Fit(altitude, pressure); err != nil {
		return nil, fmt.Errorf("%w: pressure: %w", ErrInvalidTable, err)
	}
	if err := t.temperature.Fit(altitude, temperature); err != nil {
		return nil, fmt.Errorf("%w: temperature: %w", ErrInvalidTable, err)
	}
	return t, nil
}

// LoadTabulated reads the table file at path (see ReadTable) and builds the atmosphere.
func LoadTabulated(path string, opts ...Option) (*Tabulated, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	alt, ρ, p, T, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := NewTabulated(alt, ρ, p, T, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.source = path
	return t, nil
}

// ReadTable reads a four column table of altitude, density, pressure and temperature.
// Columns are separated by white space and/or commas; empty lines and lines starting with # are skipped.
func ReadTable(r io.Reader) (altitude, density, pressure, temperature []float64, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
		if len(fields) != 4 {
			return nil, nil, nil, nil, fmt.Errorf("%w: line %d has %d columns, expected 4", ErrInvalidTable, lineNo, len(fields))
		}
		var row [4]float64
		for i, field := range fields {
			if row[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, nil, nil, fmt.Errorf("%w: line %d: %w", ErrInvalidTable, lineNo, err)
			}
		}
		altitude = append(altitude, row[0])
		density = append(density, row[1])
		pressure = append(pressure, row[2])
		temperature = append(temperature, row[3])
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, nil, nil, err
	}
	return
}

// Domain returns the altitude range of the table.
func (t *Tabulated) Domain() (lo, hi float64) {
	return t.minAlt, t.maxAlt
}

// Density implements the DensityModel interface.
func (t *Tabulated) Density(altitude float64) (float64, error) {
	return t.predict(&t.density, "density", altitude)
}

// Pressure returns the interpolated pressure at the provided altitude.
func (t *Tabulated) Pressure(altitude float64) (float64, error) {
	return t.predict(&t.pressure, "pressure", altitude)
}

// Temperature returns the interpolated temperature at the provided altitude.
func (t *Tabulated) Temperature(altitude float64) (float64, error) {
	return t.predict(&t.temperature, "temperature", altitude)
}

func (t *Tabulated) predict(column interp.Predictor, name string, altitude float64) (float64, error) {
	if math.IsNaN(altitude) {
		return math.NaN(), fmt.Errorf("%w: %s at NaN altitude", ErrOutOfDomain, name)
	}
	if altitude < t.minAlt || altitude > t.maxAlt {
		if !t.extrapolate {
			return math.NaN(), fmt.Errorf("%w: %s at %f m outside [%f, %f] of %s", ErrOutOfDomain, name, altitude, t.minAlt, t.maxAlt, t.source)
		}
		altitude = math.Min(math.Max(altitude, t.minAlt), t.maxAlt)
	}
	return column.Predict(altitude), nil
}

func (t *Tabulated) String() string {
	return fmt.Sprintf("tabulated atmosphere %s [%.1f, %.1f] m", t.source, t.minAlt, t.maxAlt)
}
