package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	"github.com/callebjorkell/tphone-keypad/internal/lcd"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"
)

const (
	defaultDeviceName = "ToxPhone Keypad"
	defaultRowPull    = "float"
	defaultColor      = 0x00ff00
	defaultLEDPin     = "GPIO21"
)

var (
	defaultRows      = []string{"GPIO14", "GPIO15", "GPIO18", "GPIO23", "GPIO24"}
	defaultColumns   = []string{"GPIO17", "GPIO27", "GPIO22"}
	defaultLCDData   = []string{"GPIO12", "GPIO13", "GPIO19", "GPIO26"}
	defaultLCDSelect = "GPIO5"
	defaultLCDClock  = "GPIO6"

	pulls = map[string]gpio.Pull{
		"float": gpio.Float,
		"up":    gpio.PullUp,
		"down":  gpio.PullDown,
	}
	// ledPins are the lines the WS281x driver can drive: PWM, PCM and SPI.
	ledPins = map[int]bool{10: true, 12: true, 13: true, 18: true, 19: true, 21: true}

	sinks = map[string]bool{
		"uinput": true,
		"log":    true,
	}
)

type Config struct {
	Device struct {
		Name string `yaml:"name"`
		Sink string `yaml:"sink"`
	} `yaml:"device"`
	Pins struct {
		Rows    []string `yaml:"rows"`
		Columns []string `yaml:"columns"`
		RowPull string   `yaml:"rowPull"`
	} `yaml:"pins"`
	Display struct {
		Enabled        bool     `yaml:"enabled"`
		RegisterSelect string   `yaml:"registerSelect"`
		Clock          string   `yaml:"clock"`
		Data           []string `yaml:"data"`
	} `yaml:"display"`
	Indicator struct {
		Enabled bool   `yaml:"enabled"`
		Pin     string `yaml:"pin"`
		Color   uint32 `yaml:"color"`
	} `yaml:"indicator"`
}

// LEDPin returns the BCM number of the indicator data line. The config must
// have been validated by parseConfig.
func (c Config) LEDPin() int {
	n, _ := gpioNumber(c.Indicator.Pin)
	return n
}

func gpioNumber(name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "GPIO"))
	if err != nil || !strings.HasPrefix(name, "GPIO") {
		return 0, fmt.Errorf("pin %q is not a GPIO name", name)
	}
	return n, nil
}

// KeypadOptions converts the pin section into keypad options. The config
// must have been validated by parseConfig.
func (c Config) KeypadOptions() keypad.Options {
	var opts keypad.Options
	copy(opts.Rows[:], c.Pins.Rows)
	copy(opts.Columns[:], c.Pins.Columns)
	opts.RowPull = pulls[c.Pins.RowPull]
	return opts
}

func (c Config) LCDPins() lcd.Pins {
	p := lcd.Pins{
		RegisterSelect: c.Display.RegisterSelect,
		Clock:          c.Display.Clock,
	}
	copy(p.Data[:], c.Display.Data)
	return p
}

func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Device.Name == "" {
		c.Device.Name = defaultDeviceName
	}
	if c.Device.Sink == "" {
		c.Device.Sink = defaultSink
	}
	if !sinks[c.Device.Sink] {
		return nil, fmt.Errorf("unknown sink %q", c.Device.Sink)
	}

	if len(c.Pins.Rows) == 0 {
		c.Pins.Rows = defaultRows
	}
	if len(c.Pins.Columns) == 0 {
		c.Pins.Columns = defaultColumns
	}
	if c.Pins.RowPull == "" {
		c.Pins.RowPull = defaultRowPull
	}
	if len(c.Pins.Rows) != keypad.Rows {
		return nil, fmt.Errorf("exactly %d row pins are required, got %d", keypad.Rows, len(c.Pins.Rows))
	}
	if len(c.Pins.Columns) != keypad.Columns {
		return nil, fmt.Errorf("exactly %d column pins are required, got %d", keypad.Columns, len(c.Pins.Columns))
	}
	if _, ok := pulls[c.Pins.RowPull]; !ok {
		return nil, fmt.Errorf("unknown row pull %q", c.Pins.RowPull)
	}

	used := append(append([]string{}, c.Pins.Rows...), c.Pins.Columns...)

	if c.Display.RegisterSelect == "" {
		c.Display.RegisterSelect = defaultLCDSelect
	}
	if c.Display.Clock == "" {
		c.Display.Clock = defaultLCDClock
	}
	if len(c.Display.Data) == 0 {
		c.Display.Data = defaultLCDData
	}
	if c.Display.Enabled {
		if len(c.Display.Data) != 4 {
			return nil, fmt.Errorf("the display needs exactly 4 data pins, got %d", len(c.Display.Data))
		}
		used = append(used, c.Display.RegisterSelect, c.Display.Clock)
		used = append(used, c.Display.Data...)
	}

	if c.Indicator.Pin == "" {
		c.Indicator.Pin = defaultLEDPin
	}
	if c.Indicator.Enabled {
		n, err := gpioNumber(c.Indicator.Pin)
		if err != nil {
			return nil, err
		}
		if !ledPins[n] {
			return nil, fmt.Errorf("pin %s cannot drive the indicator LEDs", c.Indicator.Pin)
		}
		used = append(used, c.Indicator.Pin)
	}

	seen := make(map[string]bool)
	for i, name := range used {
		if name == "" {
			return nil, fmt.Errorf("pin name must be specified for entry %d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("pin %s is used more than once", name)
		}
		seen[name] = true
	}

	if c.Indicator.Color == 0 {
		c.Indicator.Color = defaultColor
	}

	return c, nil
}
