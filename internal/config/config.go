// Package config reads the INI configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/susji/tinyini"

	"scatterview/internal/geom"
	"scatterview/internal/panzoom"
	"scatterview/internal/plot"
	"scatterview/internal/variogram"
)

const (
	DefaultDBPath      = "scatterview.sqlite"
	DefaultPlot        = "ternary"
	DefaultWheelSettle = time.Second
	DefaultBins        = 15
)

var ErrInvalid = errors.New("invalid configuration file")

type Config struct {
	DBPath string
	Data   string
	Plot   string

	ZoomMin     float64
	ZoomMax     float64
	WheelSettle time.Duration
	RestrictPan bool

	HoverRadius   float64
	DragThreshold float64

	Bins        int
	MaxDistance float64
}

func Default() Config {
	l := panzoom.DefaultLimits()
	g := plot.DefaultGestureConfig()
	return Config{
		DBPath:        DefaultDBPath,
		Plot:          DefaultPlot,
		ZoomMin:       l.Min.X,
		ZoomMax:       l.Max.X,
		WheelSettle:   DefaultWheelSettle,
		RestrictPan:   true,
		HoverRadius:   g.HoverRadius,
		DragThreshold: g.DragThreshold,
		Bins:          DefaultBins,
	}
}

// Limits returns the zoom limits, the same on both axes.
func (c Config) Limits() panzoom.Limits {
	return panzoom.Limits{
		Min: geom.Pt(c.ZoomMin, c.ZoomMin),
		Max: geom.Pt(c.ZoomMax, c.ZoomMax),
	}
}

// Restrictor returns the pan restrictor, nil when panning is unrestricted.
func (c Config) Restrictor() panzoom.Restrictor {
	if !c.RestrictPan {
		return nil
	}
	return panzoom.DefaultRestrictor{}
}

func (c Config) Gesture() plot.GestureConfig {
	return plot.GestureConfig{DragThreshold: c.DragThreshold, HoverRadius: c.HoverRadius}
}

func (c Config) BinOptions() variogram.BinOptions {
	return variogram.BinOptions{MaxDistance: c.MaxDistance, Bins: c.Bins}
}

// LoadFile reads path. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no configuration file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("unable to handle configuration file %q: %w", path, err)
	}
	return c, nil
}

// Load parses r on top of the defaults. Every bad line is reported; the
// returned error joins them.
func Load(r io.Reader) (Config, error) {
	sections, perrs := tinyini.Parse(r)
	if len(perrs) != 0 {
		return Config{}, errors.Join(append([]error{ErrInvalid}, perrs...)...)
	}

	c := Default()
	var errs []error
	for section, keys := range sections {
		for k, pairs := range keys {
			for _, pair := range pairs {
				if err := c.set(section, k, pair.Value); err != nil {
					errs = append(errs, fmt.Errorf("%d: %s: %w", pair.Lineno, k, err))
				}
			}
		}
	}
	if err := c.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) != 0 {
		return Config{}, errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return c, nil
}

func (c *Config) set(section, key, value string) error {
	var err error
	switch section + "." + key {
	case ".db_path":
		c.DBPath = value
	case ".data":
		c.Data = value
	case ".plot":
		switch value {
		case "ternary", "binary", "variogram":
			c.Plot = value
		default:
			err = fmt.Errorf("unknown plot kind %q", value)
		}
	case "panzoom.zoom_min":
		c.ZoomMin, err = strconv.ParseFloat(value, 64)
	case "panzoom.zoom_max":
		c.ZoomMax, err = strconv.ParseFloat(value, 64)
	case "panzoom.wheel_settle":
		c.WheelSettle, err = time.ParseDuration(value)
	case "panzoom.restrict_pan":
		c.RestrictPan, err = strconv.ParseBool(value)
	case "interaction.hover_radius":
		c.HoverRadius, err = strconv.ParseFloat(value, 64)
	case "interaction.drag_threshold":
		c.DragThreshold, err = strconv.ParseFloat(value, 64)
	case "variogram.bins":
		c.Bins, err = strconv.Atoi(value)
	case "variogram.max_distance":
		c.MaxDistance, err = strconv.ParseFloat(value, 64)
	default:
		err = errors.New("unrecognized config item")
	}
	return err
}

func (c Config) validate() error {
	switch {
	case c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin:
		return fmt.Errorf("zoom limits [%g, %g] must be positive and ordered", c.ZoomMin, c.ZoomMax)
	case c.WheelSettle <= 0:
		return errors.New("wheel_settle must be positive")
	case c.HoverRadius <= 0:
		return errors.New("hover_radius must be positive")
	case c.DragThreshold < 0:
		return errors.New("drag_threshold must not be negative")
	case c.Bins < 1:
		return errors.New("variogram bins must be at least 1")
	case c.MaxDistance < 0:
		return errors.New("max_distance must not be negative")
	}
	return nil
}
