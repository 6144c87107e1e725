// Command medbox runs the medicine reminder daemon: it polls the front
// panel buttons and the environment sensor, drives the OLED, LED and
// buzzer, and publishes events to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/medbox/internal/actuator"
	"github.com/sweeney/medbox/internal/button"
	"github.com/sweeney/medbox/internal/clock"
	"github.com/sweeney/medbox/internal/config"
	"github.com/sweeney/medbox/internal/display"
	"github.com/sweeney/medbox/internal/logic"
	"github.com/sweeney/medbox/internal/mqtt"
	"github.com/sweeney/medbox/internal/sensor"
	"github.com/sweeney/medbox/internal/state"
	"github.com/sweeney/medbox/internal/status"
	"github.com/sweeney/medbox/internal/web"
)

func main() {
	def := config.Default()

	configPath := flag.String("config", "", "YAML config file (flags override it)")
	broker := flag.String("broker", def.Broker, "MQTT broker address")
	httpAddr := flag.String("http", def.HTTPAddr, "HTTP status address (empty to disable)")
	stateFile := flag.String("state", def.StateFile, "alarm/timezone state file (empty to disable)")
	poll := flag.Duration("poll", time.Duration(def.PollMs)*time.Millisecond, "input polling interval")
	debounce := flag.Duration("debounce", time.Duration(def.DebounceMs)*time.Millisecond, "button debounce window")
	snooze := flag.Duration("snooze", time.Duration(def.SnoozeMs)*time.Millisecond, "snooze duration")
	displayKind := flag.String("display", def.Display, `render sink ("oled" or "console")`)
	timezone := flag.Float64("timezone", def.Timezone, "initial UTC offset in hours")
	gpioChip := flag.String("gpio-chip", def.GPIOChip, "GPIO character device name")
	i2cBus := flag.String("i2c-bus", def.I2CBus, "I2C bus for the OLED and SHT4x")

	flag.Parse()

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	// Explicitly set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "broker":
			cfg.Broker = *broker
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "state":
			cfg.StateFile = *stateFile
		case "poll":
			cfg.PollMs = poll.Milliseconds()
		case "debounce":
			cfg.DebounceMs = debounce.Milliseconds()
		case "snooze":
			cfg.SnoozeMs = snooze.Milliseconds()
		case "display":
			cfg.Display = *displayKind
		case "timezone":
			cfg.Timezone = *timezone
		case "gpio-chip":
			cfg.GPIOChip = *gpioChip
		case "i2c-bus":
			cfg.I2CBus = *i2cBus
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(cfg, log); err != nil {
		log.Fatalw("fatal", "error", err)
	}
}

func run(cfg config.Config, log *zap.SugaredLogger) error {
	buttons, err := button.NewRealReader(cfg.GPIOChip, button.Pins{
		Up:     cfg.Buttons.Up,
		Down:   cfg.Buttons.Down,
		Ok:     cfg.Buttons.Ok,
		Cancel: cfg.Buttons.Cancel,
	})
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	driver, err := actuator.NewRealDriver(cfg.GPIOChip, actuator.Pins{LED: cfg.LEDPin, Buzzer: cfg.BuzzerPin})
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer driver.Close()

	// A missing sensor is not fatal: the reminder keeps working and the
	// monitor just never gets a valid reading.
	var env sensor.Reader
	if s, err := sensor.NewRealReader(cfg.I2CBus); err != nil {
		log.Warnw("environment sensor unavailable", "error", err)
	} else {
		env = s
		defer s.Close()
	}

	var renderer display.Renderer
	switch cfg.Display {
	case "console":
		renderer = display.NewConsole(os.Stdout)
	default:
		oled, err := display.NewOLED(cfg.I2CBus)
		if err != nil {
			return fmt.Errorf("init display: %w", err)
		}
		renderer = oled
	}
	defer renderer.Close()

	clk := clock.NewSystem(cfg.Timezone, nil)

	ctrl := logic.NewController(logic.Config{
		Debounce:   time.Duration(cfg.DebounceMs) * time.Millisecond,
		Snooze:     time.Duration(cfg.SnoozeMs) * time.Millisecond,
		NoticeHold: time.Duration(cfg.NoticeMs) * time.Millisecond,
		Bands:      cfg.Bands.Logic(),
		Timezone:   cfg.Timezone,
	})

	var store *state.FileStore
	if cfg.StateFile != "" {
		store = state.NewFileStore(cfg.StateFile)
		st, err := store.Load()
		switch {
		case err == nil:
			ctrl.Restore(st.Alarms, st.TimezoneOffset)
			clk.SetOffset(ctrl.Timezone())
			log.Infow("restored state", "offset_hours", ctrl.Timezone(), "updated_at", st.UpdatedAt)
		case errors.Is(err, state.ErrNotFound):
			log.Infow("no saved state, starting fresh")
		default:
			log.Warnw("state load failed, starting fresh", "error", err)
		}
	}

	publisher, err := mqtt.NewRealPublisher(cfg.Broker, log)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:     cfg.PollMs,
		DebounceMs: cfg.DebounceMs,
		SnoozeMs:   cfg.SnoozeMs,
		Broker:     cfg.Broker,
		HTTPAddr:   cfg.HTTPAddr,
	})

	startup := mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
		Config: &mqtt.SystemConfig{
			PollMs:     int(cfg.PollMs),
			DebounceMs: int(cfg.DebounceMs),
			SnoozeMs:   int(cfg.SnoozeMs),
			Broker:     cfg.Broker,
		},
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warnw("failed to publish startup event", "error", err)
	} else {
		log.Infow("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infow("http status server listening", "addr", cfg.HTTPAddr)
	}

	log.Infow("started",
		"poll_ms", cfg.PollMs,
		"debounce_ms", cfg.DebounceMs,
		"snooze_ms", cfg.SnoozeMs,
		"broker", cfg.Broker,
		"display", cfg.Display,
	)

	ticker := time.NewTicker(time.Duration(cfg.PollMs) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(deps{
		buttons:    buttons,
		sensor:     env,
		clk:        clk,
		renderer:   renderer,
		driver:     driver,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		store:      store,
		ctrl:       ctrl,
		log:        log,
	}, time.Now, ticker.C, sigCh)
}

// deps bundles everything runLoop touches, so tests can substitute fakes.
type deps struct {
	buttons    button.Reader
	sensor     sensor.Reader // nil when no sensor is fitted
	clk        clock.Source
	renderer   display.Renderer
	driver     actuator.Driver
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	store      *state.FileStore // nil disables persistence
	ctrl       *logic.Controller
	log        *zap.SugaredLogger
}

func runLoop(d deps, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	var lastLED, lastBuzzer bool

	for {
		select {
		case s := <-sig:
			d.log.Infow("shutting down", "signal", s)
			name := "UNKNOWN"
			if s == syscall.SIGINT {
				name = "SIGINT"
			} else if s == syscall.SIGTERM {
				name = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    name,
				Retained:  true,
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				d.log.Warnw("failed to publish shutdown event", "error", err)
			} else {
				d.log.Infow("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			levels, err := d.buttons.Read()
			if err != nil {
				// Alarms must keep firing even with a dead button line.
				d.log.Warnw("button read error", "error", err)
				levels = logic.Levels{}
			}

			env := logic.Reading{}
			if d.sensor != nil {
				temp, hum, err := d.sensor.Read()
				if err != nil {
					d.log.Debugw("sensor read error", "error", err)
				} else {
					env = logic.Reading{Temperature: temp, Humidity: hum, Valid: true}
				}
			}

			wall, wallErr := d.clk.Now()
			wallValid := wallErr == nil
			if wallErr != nil && !errors.Is(wallErr, clock.ErrNotSynced) {
				d.log.Warnw("clock error", "error", wallErr)
			}

			out := d.ctrl.Tick(logic.Input{
				Now:       t,
				Wall:      wall,
				WallValid: wallValid,
				Levels:    levels,
				Env:       env,
			})

			if out.Redraw {
				if err := d.renderer.Render(out.Screen); err != nil {
					d.log.Warnw("render error", "error", err)
				}
			}
			if out.LED != lastLED {
				if err := d.driver.SetLED(out.LED); err != nil {
					d.log.Warnw("led error", "error", err)
				}
				lastLED = out.LED
			}
			if out.Buzzer != lastBuzzer {
				if err := d.driver.SetBuzzer(out.Buzzer); err != nil {
					d.log.Warnw("buzzer error", "error", err)
				}
				lastBuzzer = out.Buzzer
			}

			persist := false
			for _, ev := range out.Events {
				d.log.Infow("event", "type", ev.Type, "slot", ev.Slot)
				if err := d.publisher.Publish(ev); err != nil {
					d.log.Warnw("publish error", "error", err)
					// Don't crash on publish failure
				}
				switch ev.Type {
				case logic.EventTimezoneSet:
					d.clk.SetOffset(ev.Offset)
					persist = true
				case logic.EventAlarmSet, logic.EventAlarmCleared:
					persist = true
				}
			}
			if persist && d.store != nil {
				st := state.State{
					Alarms:         d.ctrl.Alarms(),
					TimezoneOffset: d.ctrl.Timezone(),
					UpdatedAt:      t,
				}
				if err := d.store.Save(st); err != nil {
					d.log.Warnw("state save error", "error", err)
				}
			}

			if d.tracker != nil {
				phase, slot := d.ctrl.RingState()
				d.tracker.Update(status.DeviceState{
					Wall:      wall,
					WallValid: wallValid,
					Offset:    d.ctrl.Timezone(),
					Alarms:    d.ctrl.Alarms(),
					RingPhase: phase,
					RingSlot:  slot,
					Warning:   d.ctrl.Warning(),
					Reading:   d.ctrl.LastReading(),
					Focus:     d.ctrl.FocusName(),
					Counts:    d.ctrl.Counts(),
				})
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}
		}
	}
}
