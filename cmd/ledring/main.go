package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledring/internal/anim"
	"github.com/coreman2200/ledring/internal/command"
	"github.com/coreman2200/ledring/internal/config"
	"github.com/coreman2200/ledring/internal/display"
	"github.com/coreman2200/ledring/internal/link"
	"github.com/coreman2200/ledring/internal/ring"
	"github.com/coreman2200/ledring/internal/ws"
)

func main() {
	// ---- Flags (config file values override these when set) ----
	var (
		pixels      = flag.Int("pixels", 16, "number of LEDs on the ring")
		brightness  = flag.Int("brightness", int(anim.DefaultBrightness), "initial brightness 0..255")
		mode        = flag.Int("mode", anim.DefaultMode, "initial mode")
		variant     = flag.String("variant", "classic", "mode table: classic | extended")
		frameMs     = flag.Int("frame-ms", 50, "frame interval in milliseconds")
		driver      = flag.String("driver", "sim", "driver: sim | spi | console")
		spiDev      = flag.String("spi", "", "SPI port name (empty picks the first)")
		freqKHz     = flag.Int("spi-khz", 2500, "SPI clock in kHz")
		port        = flag.String("port", "", "serial port for commands (empty reads stdin)")
		baud        = flag.Int("baud", link.DefaultBaud, "serial baud rate")
		addr        = flag.String("addr", "", "HTTP listen address for websocket preview/control (empty disables)")
		offset      = flag.Int("offset", 0, "rotate the ring by this many LEDs")
		reverse     = flag.Bool("reverse", false, "ring is wired counter-clockwise")
		chase       = flag.String("chase-color", "#ffffff", "chase color (hex)")
		configPath  = flag.String("config", "ledring.yaml", "path to config file; zero values in it (e.g. mode: 0) do not override flags")
		writeConfig = flag.Bool("write-config", false, "write the effective settings to -config and exit")
		level       = flag.String("log-level", "info", "log level: trace | debug | info | warn | error")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err != nil {
		log.Warn().Err(err).Str("level", *level).Msg("bad log level; using info")
	} else {
		zerolog.SetGlobalLevel(lvl)
	}

	// ---- Effective settings ----
	eff := &config.Config{
		Pixels:     *pixels,
		Brightness: *brightness,
		Mode:       *mode,
		Variant:    *variant,
		FrameMs:    *frameMs,
		Driver:     *driver,
		SPI:        config.SPI{Dev: *spiDev, FreqKHz: *freqKHz},
		Serial:     config.Serial{Port: *port, Baud: *baud},
		Addr:       *addr,
		Layout:     config.Layout{Offset: *offset, Reverse: *reverse},
		ChaseColor: *chase,
	}
	if cfg, err := config.Load(*configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) || isSet("config") {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		}
	} else {
		merge(eff, cfg)
	}

	if *writeConfig {
		if err := config.Save(*configPath, eff); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	v, err := anim.ParseVariant(eff.Variant)
	if err != nil {
		log.Fatal().Err(err).Msg("variant")
	}
	chaseColor, err := config.ParseColor(eff.ChaseColor)
	if err != nil {
		log.Fatal().Err(err).Msg("chase color")
	}

	session := anim.NewSession(v)
	session.Brightness = uint8(command.Clamp(eff.Brightness, 0, 255))
	session.Mode = eff.Mode
	session.ChaseColor = chaseColor

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Command sources ----
	queue := link.NewQueue(0)
	var acks io.Writer = os.Stdout
	if link.Disabled(eff.Serial.Port) {
		queue.Go(ctx, "stdin", os.Stdin)
	} else {
		p, err := link.OpenSerial(eff.Serial.Port, eff.Serial.Baud)
		if err != nil {
			log.Fatal().Err(err).Str("port", eff.Serial.Port).Msg("open serial")
		}
		defer p.Close()
		acks = p
		queue.Go(ctx, eff.Serial.Port, p)
	}

	// ---- Sink selection ----
	layout := display.Layout{Offset: eff.Layout.Offset, Reverse: eff.Layout.Reverse}
	var sink display.Sink
	switch eff.Driver {
	case "sim":
		sink = display.NewSim()
	case "console":
		s := display.NewConsole(eff.Pixels)
		s.Layout = layout
		sink = s
	case "spi":
		s, err := display.OpenSPI(eff.SPI.Dev, eff.Pixels, physic.Frequency(eff.SPI.FreqKHz)*physic.KiloHertz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", eff.SPI.Dev).
				Msg("SPI init failed; falling back to SIM")
			sink = display.NewSim()
		} else {
			s.Layout = layout
			sink = s
		}
	default:
		log.Warn().Str("driver", eff.Driver).Msg("unknown driver; using SIM")
		sink = display.NewSim()
	}

	var (
		hub *ws.Hub
		srv *http.Server
	)
	if eff.Addr != "" {
		hub = ws.NewHub(queue)
		sink = display.Multi{sink, hub}
		srv = &http.Server{
			Addr:         eff.Addr,
			Handler:      hub.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	loop := ring.NewLooper(queue, command.NewInterpreter(acks), session, sink,
		eff.Pixels, time.Duration(eff.FrameMs)*time.Millisecond)

	if srv != nil {
		hub.Status = loop.Snapshot
		go func() {
			log.Info().Str("addr", eff.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
		defer srv.Close()
	}

	log.Info().Str("driver", eff.Driver).Str("variant", string(v)).Int("mode", session.Mode).Msg("ledring running")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("loop stopped")
	}
	log.Info().Msg("shutting down")
}

// merge copies every non-zero config value over the flag values.
func merge(dst, c *config.Config) {
	if c.Pixels > 0 {
		dst.Pixels = c.Pixels
	}
	if c.Brightness > 0 {
		dst.Brightness = c.Brightness
	}
	if c.Mode != 0 {
		dst.Mode = c.Mode
	}
	dst.Variant = firstNonEmpty(c.Variant, dst.Variant)
	if c.FrameMs > 0 {
		dst.FrameMs = c.FrameMs
	}
	dst.Driver = firstNonEmpty(c.Driver, dst.Driver)
	dst.SPI.Dev = firstNonEmpty(c.SPI.Dev, dst.SPI.Dev)
	if c.SPI.FreqKHz > 0 {
		dst.SPI.FreqKHz = c.SPI.FreqKHz
	}
	dst.Serial.Port = firstNonEmpty(c.Serial.Port, dst.Serial.Port)
	if c.Serial.Baud > 0 {
		dst.Serial.Baud = c.Serial.Baud
	}
	dst.Addr = firstNonEmpty(c.Addr, dst.Addr)
	if c.Layout != (config.Layout{}) {
		dst.Layout = c.Layout
	}
	dst.ChaseColor = firstNonEmpty(c.ChaseColor, dst.ChaseColor)
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
