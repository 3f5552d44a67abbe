// Command qubi-controller is an interactive controller for Qubi modules.
//
// It connects to a module over UDP, lets you discover modules on the
// local network, and sends typed commands from a readline shell.
//
// Usage:
//
//	qubi-controller [flags]
//
// Flags:
//
//	-target string     Module address "host:port" (default "127.0.0.1:8888")
//	-timeout duration  Reply timeout per attempt (default 5s)
//	-retries int       Retries after a timeout (default 3)
//	-no-seq            Disable sequence tracking
//	-capture string    Write protocol events to a capture file (.qlog)
//
// Examples:
//
//	# Talk to a local module
//	qubi-controller
//
//	# Talk to a robot head on the network, capture traffic
//	qubi-controller -target 192.168.4.20:8888 -capture session.qlog
package main

import (
	"flag"
	stdlog "log"

	"github.com/qubi-robotics/qubi-go/pkg/controller"
	"github.com/qubi-robotics/qubi-go/pkg/log"
)

func main() {
	var (
		flagTarget  = flag.String("target", "127.0.0.1:8888", `Module address "host:port"`)
		flagTimeout = flag.Duration("timeout", controller.DefaultTimeout, "Reply timeout per attempt")
		flagRetries = flag.Int("retries", controller.DefaultRetries, "Retries after a timeout")
		flagNoSeq   = flag.Bool("no-seq", false, "Disable sequence tracking")
		flagCapture = flag.String("capture", "", "Write protocol events to a capture file (.qlog)")
	)
	flag.Parse()

	stdlog.SetFlags(stdlog.Ltime)

	var logger log.Logger = log.NoopLogger{}
	if *flagCapture != "" {
		fl, err := log.NewFileLogger(*flagCapture)
		if err != nil {
			stdlog.Fatalf("Failed to open capture file: %v", err)
		}
		defer fl.Close()
		logger = fl
	}

	cfg := controller.Config{
		Timeout:            *flagTimeout,
		Retries:            *flagRetries,
		NoSequenceTracking: *flagNoSeq,
		Logger:             logger,
	}
	if *flagRetries == 0 {
		cfg.Retries = -1
	}

	shell, err := NewShell(*flagTarget, cfg)
	if err != nil {
		stdlog.Fatalf("Failed to start shell: %v", err)
	}
	defer shell.Close()

	shell.Run()
}
