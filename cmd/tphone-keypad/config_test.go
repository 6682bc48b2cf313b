package main

import (
	"testing"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func TestConfigDefaults(t *testing.T) {
	c, err := parseConfig([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, defaultDeviceName, c.Device.Name)
	assert.Equal(t, defaultSink, c.Device.Sink)
	assert.Equal(t, defaultRows, c.Pins.Rows)
	assert.Equal(t, defaultColumns, c.Pins.Columns)
	assert.False(t, c.Display.Enabled)
	assert.Equal(t, uint32(0x00ff00), c.Indicator.Color)
	assert.Equal(t, "GPIO21", c.Indicator.Pin)
	assert.Equal(t, 21, c.LEDPin())

	opts := c.KeypadOptions()
	assert.Equal(t, [keypad.Rows]string{"GPIO14", "GPIO15", "GPIO18", "GPIO23", "GPIO24"}, opts.Rows)
	assert.Equal(t, [keypad.Columns]string{"GPIO17", "GPIO27", "GPIO22"}, opts.Columns)
	assert.Equal(t, gpio.Float, opts.RowPull)
}

func TestConfig(t *testing.T) {
	c, err := parseConfig([]byte(`
device:
  name: Hall phone
  sink: log
pins:
  rows: [GPIO2, GPIO3, GPIO4, GPIO5, GPIO6]
  columns: [GPIO7, GPIO8, GPIO9]
  rowPull: down
display:
  enabled: true
  registerSelect: GPIO10
  clock: GPIO11
  data: [GPIO12, GPIO13, GPIO19, GPIO26]
indicator:
  enabled: true
  pin: GPIO18
  color: 0xff0000
`))
	require.NoError(t, err)

	assert.Equal(t, "Hall phone", c.Device.Name)
	assert.Equal(t, "log", c.Device.Sink)
	assert.Equal(t, gpio.PullDown, c.KeypadOptions().RowPull)
	assert.Equal(t, "GPIO7", c.KeypadOptions().Columns[0])
	assert.Equal(t, uint32(0xff0000), c.Indicator.Color)
	assert.Equal(t, 18, c.LEDPin())

	p := c.LCDPins()
	assert.Equal(t, "GPIO10", p.RegisterSelect)
	assert.Equal(t, "GPIO11", p.Clock)
	assert.Equal(t, [4]string{"GPIO12", "GPIO13", "GPIO19", "GPIO26"}, p.Data)
}

func TestConfigErrors(t *testing.T) {
	tt := []struct {
		name    string
		content string
	}{
		{"broken yaml", "pins: ["},
		{"unknown sink", "device:\n  sink: serial"},
		{"too few rows", "pins:\n  rows: [GPIO2, GPIO3]"},
		{"too many columns", "pins:\n  columns: [GPIO7, GPIO8, GPIO9, GPIO10]"},
		{"unknown pull", "pins:\n  rowPull: sideways"},
		{"duplicate pin", "pins:\n  columns: [GPIO17, GPIO27, GPIO14]"},
		{"empty pin", "pins:\n  columns: [GPIO17, '', GPIO22]"},
		{"display clashes with keypad", "display:\n  enabled: true\n  clock: GPIO17"},
		{"display bus too narrow", "display:\n  enabled: true\n  data: [GPIO12]"},
		{"indicator clashes with keypad", "indicator:\n  enabled: true\n  pin: GPIO18"},
		{"indicator clashes with display", "display:\n  enabled: true\nindicator:\n  enabled: true\n  pin: GPIO12"},
		{"indicator without pwm", "indicator:\n  enabled: true\n  pin: GPIO4"},
		{"indicator pin not a gpio", "indicator:\n  enabled: true\n  pin: PWM0"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tc.content))
			assert.Error(t, err)
		})
	}
}

func TestDisabledDisplayPinsAreNotChecked(t *testing.T) {
	_, err := parseConfig([]byte("display:\n  clock: GPIO17"))
	assert.NoError(t, err)
}

func TestDisabledIndicatorPinIsNotChecked(t *testing.T) {
	_, err := parseConfig([]byte("indicator:\n  pin: GPIO18"))
	assert.NoError(t, err)
}

func TestFormatKeyMap(t *testing.T) {
	assert.Equal(t, "row 0: 1 2 3\nrow 1: 4 5 6\nrow 2: 7 8 9\nrow 3: A 0 D\nrow 4: N R B\n",
		formatKeyMap(&keypad.DefaultKeyMap))
}
