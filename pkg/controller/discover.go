package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Discovery defaults.
const (
	// DefaultDiscoverTimeout is how long Discover listens for replies.
	DefaultDiscoverTimeout = 3 * time.Second

	// DefaultBroadcastAddr is the limited broadcast address.
	DefaultBroadcastAddr = "255.255.255.255"

	// DefaultDiscoverRetries is how often the discover probe is repeated
	// within the listen window. UDP broadcast is lossy.
	DefaultDiscoverRetries = 2
)

// DiscoverOptions configures a broadcast discovery run.
// Zero fields fall back to defaults.
type DiscoverOptions struct {
	// Timeout is the total listen window (default 3s).
	Timeout time.Duration

	// BroadcastAddr is the broadcast destination (default 255.255.255.255).
	BroadcastAddr string

	// Port is the destination port (default wire.DefaultPort).
	Port int

	// Retries is how many additional probes are sent, spread across the
	// listen window (default 2).
	Retries int
}

// ModuleInfo describes a module that answered a discovery probe.
type ModuleInfo struct {
	// ID is the module identifier.
	ID string

	// Type is the module category as reported by the module.
	Type wire.ModuleType

	// Addr is the module's UDP address.
	Addr *net.UDPAddr

	// LastSeen is when the last reply from this module arrived.
	LastSeen time.Time
}

// Discover broadcasts a wildcard "discover" command on the local network
// and collects the modules that answer within the listen window. A module
// is identified by its id and address; repeated replies refresh LastSeen.
//
// Replies are required to carry the module category in data.module_type;
// replies without it are ignored.
func Discover(ctx context.Context, opts DiscoverOptions) ([]ModuleInfo, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultDiscoverTimeout
	}
	if opts.BroadcastAddr == "" {
		opts.BroadcastAddr = DefaultBroadcastAddr
	}
	if opts.Port <= 0 {
		opts.Port = wire.DefaultPort
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = DefaultDiscoverRetries
	}

	target, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(opts.BroadcastAddr, fmt.Sprint(opts.Port)))
	if err != nil {
		return nil, fmt.Errorf("resolve broadcast address: %w", err)
	}

	conn, err := listenBroadcast(ctx)
	if err != nil {
		return nil, fmt.Errorf("open broadcast socket: %w", err)
	}
	defer conn.Close()

	probe := wire.NewMessage([]wire.Command{{
		ModuleID:   wire.Wildcard,
		ModuleType: wire.ModuleTypeCustom,
		Action:     "discover",
	}}, 0)
	payload, err := wire.EncodeMessage(probe)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// Repeat the probe at even intervals across the window.
	probeEvery := opts.Timeout / time.Duration(opts.Retries+1)
	nextProbe := time.Now()
	probesLeft := opts.Retries + 1

	seen := make(map[string]int)
	var found []ModuleInfo
	var buf [wire.BufferSize]byte

	for {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		if probesLeft > 0 && !time.Now().Before(nextProbe) {
			if _, err := conn.WriteToUDP(payload, target); err != nil {
				return nil, fmt.Errorf("send discover probe: %w", err)
			}
			probesLeft--
			nextProbe = nextProbe.Add(probeEvery)
		}

		// Wake up at the next probe time so repeats happen even while
		// no replies are arriving.
		readDeadline := deadline
		if probesLeft > 0 && nextProbe.Before(readDeadline) {
			readDeadline = nextProbe
		}
		if err := conn.SetReadDeadline(readDeadline); err != nil {
			return found, err
		}

		n, sender, err := conn.ReadFromUDP(buf[:])
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if !time.Now().Before(deadline) {
					return found, nil
				}
				continue
			}
			return found, fmt.Errorf("read discover reply: %w", err)
		}

		resp, err := wire.DecodeResponse(buf[:n])
		if err != nil || !resp.Status.IsSuccess() || resp.ModuleID == "" {
			continue
		}
		var data struct {
			ModuleType wire.ModuleType `json:"module_type"`
		}
		if err := resp.DecodeData(&data); err != nil || data.ModuleType == "" {
			continue
		}

		key := resp.ModuleID + "/" + sender.String()
		if idx, ok := seen[key]; ok {
			found[idx].LastSeen = time.Now()
			continue
		}
		seen[key] = len(found)
		found = append(found, ModuleInfo{
			ID:       resp.ModuleID,
			Type:     wire.ParseModuleType(string(data.ModuleType)),
			Addr:     sender,
			LastSeen: time.Now(),
		})
	}
}

// listenBroadcast opens an ephemeral UDP socket with broadcast enabled.
func listenBroadcast(ctx context.Context) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: controlBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, errors.New("not a UDP socket")
	}
	return conn, nil
}
