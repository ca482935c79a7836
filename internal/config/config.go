package config

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledring/internal/pixel"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, empty for the first port
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2500
}

type Serial struct {
	Port string `yaml:"port"` // "" or "COM" disables the port
	Baud int    `yaml:"baud"`
}

type Layout struct {
	Offset  int  `yaml:"offset"`
	Reverse bool `yaml:"reverse"`
}

type Config struct {
	Pixels     int    `yaml:"pixels"`
	Brightness int    `yaml:"brightness"`
	Mode       int    `yaml:"mode"`
	Variant    string `yaml:"variant"` // "classic" | "extended"
	FrameMs    int    `yaml:"frame_ms"`
	Driver     string `yaml:"driver"` // "sim" | "spi" | "console"

	SPI        SPI    `yaml:"spi,omitempty"`
	Serial     Serial `yaml:"serial,omitempty"`
	Addr       string `yaml:"addr,omitempty"`
	Layout     Layout `yaml:"layout,omitempty"`
	ChaseColor string `yaml:"chase_color,omitempty"` // hex, e.g. "#ff8800"
}

func Defaults() *Config {
	return &Config{
		Pixels:     pixel.DefaultCount,
		Brightness: 154,
		Mode:       0,
		Variant:    "classic",
		FrameMs:    50,
		Driver:     "sim",
		SPI:        SPI{FreqKHz: 2500},
		Serial:     Serial{Baud: 9600},
		ChaseColor: "#ffffff",
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ParseColor reads a hex color such as "#ff8800". Empty means white.
func ParseColor(s string) (pixel.Color, error) {
	if s == "" {
		return pixel.White, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return pixel.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return pixel.Color{R: r, G: g, B: b}, nil
}
