//go:build !windows

// ABOUTME: mpv IPC endpoints on unix-like systems
// ABOUTME: mpv listens on a unix domain socket in a temp directory

package player

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

// ipcAddress returns the socket path for name inside dir
func ipcAddress(dir, name string) string {
	return filepath.Join(dir, name+".sock")
}

func dialIPC(ctx context.Context, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", address)
}

// removeIPC deletes the socket file mpv leaves behind
func removeIPC(address string) {
	_ = os.Remove(address)
}
