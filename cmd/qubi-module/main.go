// Command qubi-module is a reference Qubi module implementation.
//
// This command demonstrates a complete Qubi module with:
//   - CLI argument parsing
//   - Configuration file support
//   - Simulated handlers for every module category
//   - mDNS discovery advertising
//   - Protocol event capture
//
// Usage:
//
//	qubi-module [flags]
//
// Flags:
//
//	-id string         Module identifier (default "qubi-demo")
//	-type string       Module category: actuator, display, mobile, sensor, custom (default "actuator")
//	-config string     Configuration file path (YAML)
//	-port int          Listen port (default 8888)
//	-name string       Human-readable module name
//	-mdns              Advertise the module via mDNS
//	-capture string    Write protocol events to a capture file (.qlog)
//	-verbose           Log protocol events to stderr
//
// Examples:
//
//	# Start a servo module on the default port
//	qubi-module -id arm1 -type actuator
//
//	# Start a display module from a config file
//	qubi-module -config /etc/qubi/head.yaml
//
//	# Start a sensor module with mDNS and event capture
//	qubi-module -id temp1 -type sensor -mdns -capture temp1.qlog
package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/discovery"
	"github.com/qubi-robotics/qubi-go/pkg/log"
	"github.com/qubi-robotics/qubi-go/pkg/module"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

func main() {
	var (
		flagID      = flag.String("id", "", `Module identifier (default "qubi-demo")`)
		flagType    = flag.String("type", "", `Module category: actuator, display, mobile, sensor, custom (default "actuator")`)
		flagConfig  = flag.String("config", "", "Configuration file path (YAML)")
		flagPort    = flag.Int("port", 0, "Listen port (default 8888)")
		flagName    = flag.String("name", "", "Human-readable module name")
		flagMDNS    = flag.Bool("mdns", false, "Advertise the module via mDNS")
		flagCapture = flag.String("capture", "", "Write protocol events to a capture file (.qlog)")
		flagVerbose = flag.Bool("verbose", false, "Log protocol events to stderr")
	)
	flag.Parse()

	stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds)

	cfg := DefaultConfig()
	if *flagConfig != "" {
		loaded, err := LoadConfig(*flagConfig)
		if err != nil {
			stdlog.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyFlags(*flagID, *flagType, *flagPort, *flagName, *flagMDNS, *flagCapture, *flagVerbose)

	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLogger, err := buildLogger(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLogger()

	endpoint, err := newEndpoint(cfg, logger)
	if err != nil {
		stdlog.Fatalf("Failed to create module: %v", err)
	}

	if err := endpoint.Bind(); err != nil {
		stdlog.Fatalf("Failed to bind: %v", err)
	}
	defer endpoint.Close()

	stdlog.Printf("Qubi module %q (%s) listening on port %d", endpoint.ID(), endpoint.Type(), endpoint.Port())

	var advertiser *discovery.MDNSAdvertiser
	if cfg.MDNS {
		advertiser, err = discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{})
		if err != nil {
			stdlog.Fatalf("Failed to create mDNS advertiser: %v", err)
		}
		ann := &discovery.Announcement{
			ModuleID:   endpoint.ID(),
			ModuleType: endpoint.Type(),
			Name:       cfg.Name,
			Port:       endpoint.Port(),
		}
		if err := advertiser.Advertise(context.Background(), ann); err != nil {
			stdlog.Printf("Warning: mDNS advertising failed: %v", err)
		} else {
			stdlog.Printf("Advertising %s.%s via mDNS", endpoint.ID(), discovery.ServiceType)
			defer advertiser.StopAll()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			stdlog.Printf("Received signal: %v", sig)
			stdlog.Println("Shutting down...")
			return
		default:
			if err := endpoint.Poll(); err != nil {
				stdlog.Printf("Poll error: %v", err)
			}
		}
	}
}

// buildLogger assembles the protocol event logger from the capture and
// verbose settings. The returned close function flushes the capture file.
func buildLogger(cfg *Config) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeLogger := func() {}

	if cfg.Capture != "" {
		fl, err := log.NewFileLogger(cfg.Capture)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeLogger = func() { _ = fl.Close() }
	}
	if cfg.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeLogger, nil
	case 1:
		return loggers[0], closeLogger, nil
	default:
		return log.NewMultiLogger(loggers...), closeLogger, nil
	}
}

// newEndpoint creates the module endpoint for the configured category and
// installs the simulated command handler.
func newEndpoint(cfg *Config, logger log.Logger) (endpoint, error) {
	mc := module.Config{
		ID:          cfg.ID,
		Addr:        cfg.ListenAddr(),
		Logger:      logger,
		PollTimeout: 50 * time.Millisecond,
	}

	switch wire.ParseModuleType(cfg.Type) {
	case wire.ModuleTypeActuator:
		m, err := module.NewActuator(mc)
		if err != nil {
			return nil, err
		}
		m.SetHandler(newActuatorHandler(m))
		return m, nil
	case wire.ModuleTypeDisplay:
		m, err := module.NewDisplay(mc)
		if err != nil {
			return nil, err
		}
		m.SetHandler(newDisplayHandler(m))
		return m, nil
	case wire.ModuleTypeMobile:
		m, err := module.NewMobile(mc)
		if err != nil {
			return nil, err
		}
		m.SetHandler(newMobileHandler(m))
		return m, nil
	case wire.ModuleTypeSensor:
		m, err := module.NewSensor(mc)
		if err != nil {
			return nil, err
		}
		m.SetHandler(newSensorHandler(m))
		return m, nil
	default:
		m, err := module.NewCustom(mc)
		if err != nil {
			return nil, err
		}
		m.SetHandler(newCustomHandler(m))
		return m, nil
	}
}

// endpoint is the common surface of all category endpoints.
type endpoint interface {
	Bind() error
	Close() error
	Poll() error
	ID() string
	Type() wire.ModuleType
	Port() int
}
