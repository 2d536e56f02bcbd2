// Package config loads the folio configuration file: viewer presentation
// defaults and input gesture capabilities.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	"github.com/birchlabs/folio/pkg/input"
	"github.com/birchlabs/folio/pkg/viewer"
)

var (
	ErrInvalidScale      = errors.New("invalid scale")
	ErrInvalidScrollMode = errors.New("invalid scroll mode")
	ErrInvalidSpreadMode = errors.New("invalid spread mode")

	// ValidAPIVersions contains the accepted apiVersion values.
	ValidAPIVersions = []string{
		"folio.birchlabs.io/v1beta1",
	}

	// ValidKinds contains the accepted kind values.
	ValidKinds = []string{
		"Configuration",
	}

	validScrollModes = []string{"auto", "vertical", "horizontal", "wrapped", "page"}
	validSpreadModes = []string{"auto", "none", "odd", "even"}
	namedScales      = []string{"auto", "page-fit", "page-width", "page-actual"}
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	Viewer *ViewerConfig `json:"viewer,omitempty"`
	Input  *InputConfig  `json:"input,omitempty"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// ViewerConfig holds presentation defaults applied when a document carries
// no stored state of its own.
type ViewerConfig struct {
	// Scale is a named zoom preset or a numeric factor.
	Scale string `json:"scale,omitempty" jsonschema:"title=Scale,default=auto"`
	// ScrollMode selects the scroll axis: auto, vertical, horizontal,
	// wrapped, or page.
	ScrollMode string `json:"scrollMode,omitempty" jsonschema:"title=Scroll Mode,default=auto"`
	// SpreadMode groups pages into spreads: auto, none, odd, or even.
	SpreadMode string `json:"spreadMode,omitempty" jsonschema:"title=Spread Mode,default=auto"`
	// InitTimeout bounds how long the initial view waits for all pages to be
	// measured, in [time.ParseDuration] syntax.
	InitTimeout string `json:"initTimeout,omitempty" jsonschema:"title=Init Timeout,default=10s"`
	// Watch reloads the document when it changes on disk.
	Watch *bool `json:"watch,omitempty" jsonschema:"title=Watch,default=true"`
}

// InputConfig holds gesture and key handling capabilities.
type InputConfig struct {
	// PinchToZoom enables zooming from synthetic pinch wheel events.
	PinchToZoom *bool `json:"pinchToZoom,omitempty" jsonschema:"title=Pinch To Zoom,default=true"`
	// ZoomOnCtrlWheel zooms instead of scrolling while ctrl is held.
	ZoomOnCtrlWheel *bool `json:"zoomOnCtrlWheel,omitempty" jsonschema:"title=Zoom On Ctrl Wheel,default=true"`
	// ZoomOnMetaWheel zooms instead of scrolling while meta is held.
	ZoomOnMetaWheel *bool `json:"zoomOnMetaWheel,omitempty" jsonschema:"title=Zoom On Meta Wheel,default=false"`
	// WaivePinchTolerance accepts pinch factors outside the usual bounds.
	WaivePinchTolerance *bool `json:"waivePinchTolerance,omitempty" jsonschema:"title=Waive Pinch Tolerance,default=false"`
	// CaretBrowsing moves a text caret on arrow keys instead of turning pages.
	CaretBrowsing *bool `json:"caretBrowsing,omitempty" jsonschema:"title=Caret Browsing,default=false"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: ValidAPIVersions[0],
		Kind:       ValidKinds[0],
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Viewer == nil {
		c.Viewer = &ViewerConfig{}
	}

	c.Viewer.EnsureDefaults()

	if c.Input == nil {
		c.Input = &InputConfig{}
	}

	c.Input.EnsureDefaults()
}

func (c *ViewerConfig) EnsureDefaults() {
	if c.Scale == "" {
		c.Scale = string(viewer.DefaultScale)
	}

	if c.ScrollMode == "" {
		c.ScrollMode = "auto"
	}

	if c.SpreadMode == "" {
		c.SpreadMode = "auto"
	}

	if c.InitTimeout == "" {
		c.InitTimeout = "10s"
	}

	if c.Watch == nil {
		c.Watch = ptr(true)
	}
}

func (c *InputConfig) EnsureDefaults() {
	if c.PinchToZoom == nil {
		c.PinchToZoom = ptr(true)
	}

	if c.ZoomOnCtrlWheel == nil {
		c.ZoomOnCtrlWheel = ptr(true)
	}

	if c.ZoomOnMetaWheel == nil {
		c.ZoomOnMetaWheel = ptr(false)
	}

	if c.WaivePinchTolerance == nil {
		c.WaivePinchTolerance = ptr(false)
	}

	if c.CaretBrowsing == nil {
		c.CaretBrowsing = ptr(false)
	}
}

func ptr[T any](v T) *T {
	return &v
}

// Validate checks every field against its accepted values.
func (c *Config) Validate() error {
	if !slices.Contains(namedScales, c.Viewer.Scale) {
		f, err := strconv.ParseFloat(c.Viewer.Scale, 64)
		if err != nil || f < viewer.MinScale || f > viewer.MaxScale {
			return fmt.Errorf("%w: %q", ErrInvalidScale, c.Viewer.Scale)
		}
	}

	if !slices.Contains(validScrollModes, c.Viewer.ScrollMode) {
		return fmt.Errorf("%w: %q", ErrInvalidScrollMode, c.Viewer.ScrollMode)
	}

	if !slices.Contains(validSpreadModes, c.Viewer.SpreadMode) {
		return fmt.Errorf("%w: %q", ErrInvalidSpreadMode, c.Viewer.SpreadMode)
	}

	_, err := time.ParseDuration(c.Viewer.InitTimeout)
	if err != nil {
		return fmt.Errorf("parse init timeout: %w", err)
	}

	return nil
}

// InitTimeoutDuration returns the parsed init timeout. Validate guarantees
// it parses; a zero or malformed value falls back to ten seconds.
func (c *ViewerConfig) InitTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.InitTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}

	return d
}

// ScaleValue returns the configured default scale.
func (c *ViewerConfig) ScaleValue() viewer.ScaleValue {
	return viewer.ScaleValue(c.Scale)
}

// Modes returns the configured scroll and spread modes, with "auto" mapping
// to unknown so document preferences can fill the gap.
func (c *ViewerConfig) Modes() (viewer.ScrollMode, viewer.SpreadMode) {
	scroll := viewer.ScrollUnknown

	switch c.ScrollMode {
	case "vertical":
		scroll = viewer.ScrollVertical
	case "horizontal":
		scroll = viewer.ScrollHorizontal
	case "wrapped":
		scroll = viewer.ScrollWrapped
	case "page":
		scroll = viewer.ScrollPage
	}

	spread := viewer.SpreadUnknown

	switch c.SpreadMode {
	case "none":
		spread = viewer.SpreadNone
	case "odd":
		spread = viewer.SpreadOdd
	case "even":
		spread = viewer.SpreadEven
	}

	return scroll, spread
}

// GestureConfig maps the input capabilities onto the gesture interpreter.
func (c *InputConfig) GestureConfig() input.GestureConfig {
	return input.GestureConfig{
		SupportsPinchToZoom: *c.PinchToZoom,
		ZoomOnCtrlWheel:     *c.ZoomOnCtrlWheel,
		ZoomOnMetaWheel:     *c.ZoomOnMetaWheel,
		WaivePinchTolerance: *c.WaivePinchTolerance,
	}
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	if av, ok := jss.Properties.Get("apiVersion"); ok {
		for _, v := range ValidAPIVersions {
			av.Enum = append(av.Enum, v)
		}
	}

	if k, ok := jss.Properties.Get("kind"); ok {
		for _, v := range ValidKinds {
			k.Enum = append(k.Enum, v)
		}
	}
}

// Schema reflects the JSON schema for the configuration file.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}

	return r.Reflect(&Config{})
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)
	err := enc.Encode(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	defer func() {
		err := enc.Close()
		if err != nil {
			slog.Error("failed to close YAML encoder", slog.Any("error", err))
		}
	}()

	return b.Bytes(), nil
}

// LoadFromBytes parses, defaults, and validates a configuration.
func LoadFromBytes(data []byte) (*Config, error) {
	c := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	err := dec.Decode(c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFromFile reads a configuration file. A missing file yields defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.Mode().IsRegular() {
			return nil // Config already exists.
		}

		if pathInfo.IsDir() {
			return fmt.Errorf("%s: path is a directory", path)
		}

		return fmt.Errorf("%s: unknown file state", path)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = os.WriteFile(path, b, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "folio", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "folio", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "folio", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
