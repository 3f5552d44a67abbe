//go:build !unix

package controller

import "syscall"

// controlBroadcast is a no-op on platforms without unix socket options.
func controlBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
