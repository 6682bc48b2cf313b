package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/callebjorkell/tphone-keypad/internal/keypad"
	"github.com/callebjorkell/tphone-keypad/internal/lcd"
	"github.com/callebjorkell/tphone-keypad/internal/neopixel"
	"github.com/callebjorkell/tphone-keypad/internal/uinput"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app        = kingpin.New("tphone-keypad", "Vintage phone keypad driver")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configFile = app.Flag("config", "Configuration file.").Default("config.yaml").String()
	start      = app.Command("start", "Start the keypad driver")
	keymap     = app.Command("keymap", "Show the keymap.")
	version    = app.Command("version", "Show current version.")
)

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case start.FullCommand():
		conf, err := readConfig(*configFile)
		if err != nil {
			log.Fatal("Unable to read configuration: ", err)
		}
		if err := startDriver(conf); err != nil {
			log.Fatal(err)
		}
	case keymap.FullCommand():
		fmt.Print(formatKeyMap(&keypad.DefaultKeyMap))
	case version.FullCommand():
		showVersion()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func formatKeyMap(m *keypad.KeyMap) string {
	var b strings.Builder
	for r := 0; r < keypad.Rows; r++ {
		fmt.Fprintf(&b, "row %d:", r)
		for c := 0; c < keypad.Columns; c++ {
			k, _ := m.Lookup(keypad.Coord{Row: r, Column: c})
			fmt.Fprintf(&b, " %s", k.Label())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// sinkOpener is single use: the keypad closes events when it stops, so a
// restarted keypad needs a new opener and ChanSink.
func sinkOpener(conf *Config, events *keypad.ChanSink) keypad.SinkOpener {
	return func(m *keypad.KeyMap) (keypad.Sink, error) {
		switch conf.Device.Sink {
		case "uinput":
			kb, err := uinput.Open(conf.Device.Name)(m)
			if err != nil {
				return nil, fmt.Errorf("%w (set device.sink to log to run without uinput)", err)
			}
			return keypad.MultiSink(kb, events), nil
		default:
			return keypad.MultiSink(keypad.LogSink{}, events), nil
		}
	}
}

func startDriver(conf *Config) error {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	pins, closePins, err := openPins(conf)
	if err != nil {
		return err
	}
	defer closePins()

	var display lcd.Display = lcd.LogDisplay{}
	if conf.Display.Enabled && hardware {
		panel, err := lcd.Open(conf.LCDPins(), pins)
		if err != nil {
			return err
		}
		defer panel.Close()
		display = panel
	}
	dial := lcd.NewDialDisplay(display)
	if err := dial.Reset(); err != nil {
		log.Warn("Unable to reset display: ", err)
	}

	var led *neopixel.LedController
	if conf.Indicator.Enabled {
		led, err = neopixel.NewLedController(conf.LEDPin())
		if err != nil {
			return fmt.Errorf("unable to open LEDs: %w", err)
		}
		defer led.Close()
	}

	events := keypad.NewChanSink(16)
	opts := conf.KeypadOptions()
	opts.Pins = pins
	opts.OpenSink = sinkOpener(conf, events)

	kp := keypad.New(opts)
	if err := kp.Start(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range events.Events() {
			log.Debugf("Event: %v", e)
			if !e.Pressed {
				continue
			}
			if err := dial.Key(e.Code.Label()); err != nil {
				log.Warn("Unable to update display: ", err)
			}
			if led != nil {
				led.Flash(conf.Indicator.Color)
			}
		}
	}()

	<-signalChan

	if err := kp.Stop(); err != nil {
		log.Warn(err)
	}
	<-done

	if err := dial.Sleep(); err != nil {
		log.Warn("Unable to update display: ", err)
	}

	log.Info("Done...")
	return nil
}
