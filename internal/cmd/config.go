package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kpumuk/lazychart/internal/chart"
)

const (
	defaultIncrement = 24 * time.Hour
	defaultLookback  = 7 * 24 * time.Hour
	counterIncrement = 24 * time.Hour
)

var (
	errInvalidTime      = errors.New("invalid time")
	errInvalidIncrement = errors.New("invalid increment")
	errInvalidOutput    = errors.New("invalid output format")
	errInvalidColor     = errors.New("invalid color mode")
	errNoSource         = errors.New("no data source")
	errMixedSources     = errors.New("mixed sources need --value-field")
	errTooManyKeys      = errors.New("more than one key")
)

type outputFormat string

const (
	outputJSON    outputFormat = "json"
	outputPreview outputFormat = "preview"
	outputTable   outputFormat = "table"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case outputJSON, outputPreview, outputTable:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want json, preview or table)", errInvalidOutput, s)
	}
}

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func parseColorMode(s string) (colorMode, error) {
	switch m := colorMode(strings.ToLower(s)); m {
	case colorAuto, colorAlways, colorNever:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want auto, always or never)", errInvalidColor, s)
	}
}

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC3339 or a naive date/time interpreted in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errInvalidTime, s)
}

// parseIncrement accepts a Go duration or a whole number of days ("7d").
func parseIncrement(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidIncrement, s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errInvalidIncrement, s)
		}
		d = parsed
	}
	if d < time.Second {
		return 0, fmt.Errorf("%w: %q must be at least one second", errInvalidIncrement, s)
	}
	return d, nil
}

// config is the resolved command line.
type config struct {
	redisURL string
	debug    bool
	output   outputFormat
	color    colorMode
	location *time.Location

	keys       []string
	subKey     string
	counter    string
	subCounter string

	query   chart.Query
	options chart.Options
}

type rawConfig struct {
	redisURL   string
	keys       []string
	subKey     string
	counter    string
	subCounter string
	from       string
	to         string
	increment  string
	timeField  string
	valueField string
	title      string
	width      int
	height     int
	tz         string
	output     string
	color      string
	debug      bool
}

func (r rawConfig) resolve(now time.Time) (config, error) {
	loc, err := time.LoadLocation(r.tz)
	if err != nil {
		return config{}, fmt.Errorf("load timezone: %w", err)
	}
	output, err := parseOutputFormat(r.output)
	if err != nil {
		return config{}, err
	}
	color, err := parseColorMode(r.color)
	if err != nil {
		return config{}, err
	}
	increment, err := parseIncrement(r.increment)
	if err != nil {
		return config{}, err
	}

	end := now.In(loc)
	if r.to != "" {
		if end, err = parseTime(r.to, loc); err != nil {
			return config{}, fmt.Errorf("parse to: %w", err)
		}
	}
	start := end.Add(-defaultLookback)
	if r.from != "" {
		if start, err = parseTime(r.from, loc); err != nil {
			return config{}, fmt.Errorf("parse from: %w", err)
		}
	}

	return config{
		redisURL:   r.redisURL,
		debug:      r.debug,
		output:     output,
		color:      color,
		location:   loc,
		keys:       r.keys,
		subKey:     r.subKey,
		counter:    r.counter,
		subCounter: r.subCounter,
		query: chart.Query{
			TimeField:  r.timeField,
			ValueField: r.valueField,
		},
		options: chart.Options{
			Start:     start,
			End:       end,
			Increment: increment,
			Title:     r.title,
			Width:     r.width,
			Height:    r.height,
			Location:  loc,
		},
	}, nil
}
