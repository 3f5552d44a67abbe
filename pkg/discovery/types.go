package discovery

import (
	"errors"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Service constants for mDNS.
const (
	// ServiceType is the mDNS service type for Qubi modules.
	ServiceType = "_qubi._udp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants.
const (
	// TXTKeyModuleID is the module identifier (required).
	TXTKeyModuleID = "id"

	// TXTKeyModuleType is the module category (required).
	TXTKeyModuleType = "ty"

	// TXTKeyVersion is the protocol version (required).
	TXTKeyVersion = "ver"

	// TXTKeyName is an optional human-readable module name.
	TXTKeyName = "nm"
)

// Timing and limits.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required field")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// Announcement describes a module to advertise via mDNS.
type Announcement struct {
	// ModuleID is the module identifier. Used as the mDNS instance name.
	ModuleID string

	// ModuleType is the module category.
	ModuleType wire.ModuleType

	// Name is an optional human-readable name.
	Name string

	// Port is the module's UDP port. Zero means wire.DefaultPort.
	Port int
}

// Validate checks that the announcement can be advertised.
func (a *Announcement) Validate() error {
	if a.ModuleID == "" {
		return ErrMissingRequired
	}
	return ValidateInstanceName(a.ModuleID)
}

// ModuleService represents a module found via mDNS.
type ModuleService struct {
	// InstanceName is the mDNS instance name (the module id).
	InstanceName string

	// Host is the hostname (e.g. "qubi-head.local").
	Host string

	// Port is the module's UDP port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// ModuleID is the module identifier (from TXT "id").
	ModuleID string

	// ModuleType is the module category (from TXT "ty").
	ModuleType wire.ModuleType

	// Version is the protocol version (from TXT "ver").
	Version string

	// Name is the optional human-readable name (from TXT "nm").
	Name string
}

// ValidateInstanceName checks DNS label constraints.
func ValidateInstanceName(name string) error {
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
