//go:build windows

// ABOUTME: mpv IPC endpoints on Windows
// ABOUTME: mpv's --input-ipc-server creates a named pipe there, dialed with go-winio

package player

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

// ipcAddress returns a named pipe path; pipes have no directory
func ipcAddress(_, name string) string {
	return pipePrefix + name
}

func dialIPC(ctx context.Context, address string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, address)
}

// removeIPC is a no-op: the pipe disappears with the mpv process
func removeIPC(string) {}
