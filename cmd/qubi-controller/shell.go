package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/qubi-robotics/qubi-go/pkg/command"
	"github.com/qubi-robotics/qubi-go/pkg/controller"
	"github.com/qubi-robotics/qubi-go/pkg/discovery"
	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Shell is the interactive controller command loop.
type Shell struct {
	rl   *readline.Instance
	cfg  controller.Config
	ctrl *controller.Controller

	// moduleID is the target module id used in commands. Defaults to the
	// wildcard so a fresh shell works against any single module.
	moduleID string
}

// NewShell creates a shell targeting the module at target.
func NewShell(target string, cfg controller.Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "qubi> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	ctrl, err := controller.New(target, cfg)
	if err != nil {
		rl.Close()
		return nil, err
	}

	return &Shell{
		rl:       rl,
		cfg:      cfg,
		ctrl:     ctrl,
		moduleID: wire.Wildcard,
	}, nil
}

// Close releases the shell's controller and terminal.
func (s *Shell) Close() {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.rl.Close()
}

// Run starts the interactive command loop. It returns on quit or EOF.
func (s *Shell) Run() {
	fmt.Fprintf(s.rl.Stdout(), "Connected to %s (module id %q)\n", s.ctrl.Addr(), s.moduleID)
	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "discover", "d":
			s.cmdDiscover()

		case "mdns":
			s.cmdMDNS()

		case "target", "t":
			s.cmdTarget(args)

		case "module", "m":
			s.cmdModule(args)

		case "ping":
			s.send(command.Custom(s.moduleID).Do("ping", nil))

		case "servo":
			s.cmdServo(args)

		case "position", "pos":
			s.cmdPosition(args)

		case "eyes":
			s.cmdEyes(args)

		case "expression", "expr":
			s.cmdExpression(args)

		case "move":
			s.cmdMove(args)

		case "location", "loc":
			s.cmdLocation(args)

		case "read":
			s.cmdRead(args)

		case "status":
			s.send(command.Sensor(s.moduleID).GetStatus())

		case "raw":
			s.cmdRaw(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Qubi Controller Commands:
  Setup:
    target <host:port>          - Switch target module address
    module <id>                 - Set target module id (* for any)
    discover                    - Broadcast discovery on the local network
    mdns                        - Browse for modules via mDNS

  Commands:
    ping                        - Check the module is alive
    servo <angle> [speed]       - Set servo angle (0-180)
    position <x> <y> <z>        - Set actuator 3D position
    eyes <lx> <ly> <rx> <ry>    - Set display eye positions
    expression <name> [0-100]   - Set facial expression
    move <velocity> <direction> - Move the mobile base
    location                    - Query mobile base location
    read [sensor_type]          - Read a sensor value
    status                      - Query sensor status
    raw <action> [json-params]  - Send an arbitrary command

  Other:
    help                        - Show this help
    quit                        - Exit`)
}

// send transmits a built command and prints the reply.
func (s *Shell) send(cmd wire.Command, buildErr error) {
	if buildErr != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", buildErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := s.ctrl.SendCommand(ctx, cmd)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.printResponse(resp)
}

func (s *Shell) printResponse(resp *wire.Response) {
	out := s.rl.Stdout()
	fmt.Fprintf(out, "%d %s from %q: %s\n", int(resp.Status), resp.Status, resp.ModuleID, resp.Message)
	if len(resp.Data) > 0 {
		fmt.Fprintf(out, "  data: %s\n", string(resp.Data))
	}
}

func (s *Shell) cmdDiscover() {
	fmt.Fprintln(s.rl.Stdout(), "Broadcasting discovery probe...")

	modules, err := controller.Discover(context.Background(), controller.DiscoverOptions{})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if len(modules) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No modules found")
		return
	}
	for _, m := range modules {
		fmt.Fprintf(s.rl.Stdout(), "  %-16s %-10s %s\n", m.ID, m.Type, m.Addr)
	}
}

func (s *Shell) cmdMDNS() {
	fmt.Fprintln(s.rl.Stdout(), "Browsing mDNS for 3s...")

	browser, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	results, err := browser.Browse(ctx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	found := 0
	for svc := range results {
		found++
		fmt.Fprintf(s.rl.Stdout(), "  %-16s %-10s %v port %d\n", svc.ModuleID, svc.ModuleType, svc.Addresses, svc.Port)
	}
	if found == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No modules found")
	}
}

func (s *Shell) cmdTarget(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: target <host:port>")
		return
	}

	ctrl, err := controller.New(args[0], s.cfg)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	s.ctrl.Close()
	s.ctrl = ctrl
	fmt.Fprintf(s.rl.Stdout(), "Target set to %s\n", ctrl.Addr())
}

func (s *Shell) cmdModule(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(s.rl.Stdout(), "Target module id: %q\n", s.moduleID)
		return
	}
	s.moduleID = args[0]
	fmt.Fprintf(s.rl.Stdout(), "Module id set to %q\n", s.moduleID)
}

func (s *Shell) cmdServo(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: servo <angle> [speed]")
		return
	}
	angle, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid angle: %s\n", args[0])
		return
	}
	speed := -1
	if len(args) == 2 {
		speed, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid speed: %s\n", args[1])
			return
		}
	}
	s.send(command.Actuator(s.moduleID).SetServo(angle, speed, ""))
}

func (s *Shell) cmdPosition(args []string) {
	if len(args) == 0 {
		s.send(command.Actuator(s.moduleID).GetPosition())
		return
	}
	coords, ok := parseFloats(s, args, 3, "Usage: position <x> <y> <z>")
	if !ok {
		return
	}
	s.send(command.Actuator(s.moduleID).SetPosition(coords[0], coords[1], coords[2]))
}

func (s *Shell) cmdEyes(args []string) {
	if len(args) != 4 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: eyes <lx> <ly> <rx> <ry>")
		return
	}
	vals := make([]int, 4)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid coordinate: %s\n", a)
			return
		}
		vals[i] = v
	}
	s.send(command.Display(s.moduleID).SetEyes(vals[0], vals[1], vals[2], vals[3], false))
}

func (s *Shell) cmdExpression(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: expression <happy|sad|surprised|neutral|angry> [intensity]")
		return
	}
	intensity := -1
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid intensity: %s\n", args[1])
			return
		}
		intensity = v
	}
	s.send(command.Display(s.moduleID).SetExpression(args[0], intensity))
}

func (s *Shell) cmdMove(args []string) {
	vals, ok := parseFloats(s, args, 2, "Usage: move <velocity> <direction>")
	if !ok {
		return
	}
	s.send(command.Mobile(s.moduleID).Move(vals[0], vals[1], 0))
}

func (s *Shell) cmdLocation(args []string) {
	if len(args) == 0 {
		s.send(command.Mobile(s.moduleID).GetLocation())
		return
	}
	vals, ok := parseFloats(s, args, 3, "Usage: location [<x> <y> <heading>]")
	if !ok {
		return
	}
	s.send(command.Mobile(s.moduleID).SetLocation(vals[0], vals[1], vals[2]))
}

func (s *Shell) cmdRead(args []string) {
	sensorType := ""
	if len(args) > 0 {
		sensorType = args[0]
	}
	s.send(command.Sensor(s.moduleID).Read(sensorType))
}

func (s *Shell) cmdRaw(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: raw <action> [json-params]")
		return
	}
	var params any
	if len(args) > 1 {
		raw := strings.Join(args[1:], " ")
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid params JSON: %v\n", err)
			return
		}
		params = obj
	}
	s.send(command.Custom(s.moduleID).Do(args[0], params))
}

// parseFloats parses exactly n float arguments, printing usage on error.
func parseFloats(s *Shell, args []string, n int, usage string) ([]float64, bool) {
	if len(args) != n {
		fmt.Fprintln(s.rl.Stdout(), usage)
		return nil, false
	}
	vals := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid number: %s\n", a)
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}
