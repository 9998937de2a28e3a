// ABOUTME: mpv JSON IPC client and process launcher
// ABOUTME: Sends request_id tagged commands over the IPC socket and matches replies

package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"video-marker/marks"
)

// BinaryEnvVar overrides the mpv binary lookup
const BinaryEnvVar = "VIDEO_MARKER_MPV"

const (
	defaultStartTimeout = 5 * time.Second
	dialRetryInterval   = 50 * time.Millisecond
	quitWaitTimeout     = 2 * time.Second
)

// CommandError is an mpv reply whose error field is not "success"
type CommandError struct {
	Command string
	Msg     string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Msg)
}

// IsCommandError reports whether err is a CommandError
func IsCommandError(err error) bool {
	var e *CommandError
	return errors.As(err, &e)
}

type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type reply struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID *int64          `json:"request_id"`
	Event     string          `json:"event"`
}

// Client speaks the mpv IPC protocol over an established connection
type Client struct {
	conn   net.Conn
	nextID atomic.Int64

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[int64]chan reply
	closed  bool
	done    chan struct{}
}

// NewClient wraps conn and starts reading replies
func NewClient(conn net.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[int64]chan reply),
		done:    make(chan struct{}),
	}

	go c.readLoop()

	return c
}

// Dial connects to an mpv IPC endpoint, retrying until ctx is done
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	for {
		conn, err := dialIPC(ctx, socketPath)
		if err == nil {
			return NewClient(conn), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to mpv socket %s: %w", socketPath, err)
		case <-time.After(dialRetryInterval):
		}
	}
}

// readLoop dispatches replies to waiting commands until the connection closes
func (c *Client) readLoop() {
	defer c.shutdown()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var r reply
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}

		// Events carry no request_id
		if r.Event != "" || r.RequestID == nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*r.RequestID]
		delete(c.pending, *r.RequestID)
		c.mu.Unlock()

		if ok {
			ch <- r
		}
	}
}

// shutdown fails all pending commands
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.done)

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Command sends args as an mpv command and returns the reply data
func (c *Client) Command(ctx context.Context, args ...any) (json.RawMessage, error) {
	if len(args) == 0 {
		return nil, errors.New("empty mpv command")
	}

	id := c.nextID.Add(1)
	ch := make(chan reply, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	line, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("failed to encode mpv command: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(line, '\n'))
	c.writeMu.Unlock()

	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("failed to send mpv command: %w", err)
	}

	name := fmt.Sprint(args[0])

	select {
	case r, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}

		if r.Error != "" && r.Error != "success" {
			if r.Error == "property unavailable" {
				return nil, ErrUnavailable
			}

			return nil, &CommandError{Command: name, Msg: r.Error}
		}

		return r.Data, nil
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Property reads an mpv property into v
func (c *Client) Property(ctx context.Context, name string, v any) error {
	data, err := c.Command(ctx, "get_property", name)
	if err != nil {
		return err
	}

	if len(data) == 0 || string(data) == "null" {
		return ErrUnavailable
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode mpv property %s: %w", name, err)
	}

	return nil
}

// SetProperty writes an mpv property
func (c *Client) SetProperty(ctx context.Context, name string, v any) error {
	_, err := c.Command(ctx, "set_property", name, v)
	return err
}

// Position returns the playback position in milliseconds
func (c *Client) Position(ctx context.Context) (int64, error) {
	return c.millisProperty(ctx, "time-pos")
}

// Duration returns the length of the loaded file in milliseconds
func (c *Client) Duration(ctx context.Context) (int64, error) {
	return c.millisProperty(ctx, "duration")
}

func (c *Client) millisProperty(ctx context.Context, name string) (int64, error) {
	var sec float64
	if err := c.Property(ctx, name, &sec); err != nil {
		return 0, err
	}

	ms := marks.MillisFromSeconds(sec)
	if ms < 0 {
		return 0, ErrUnavailable
	}

	return ms, nil
}

// Play resumes playback
func (c *Client) Play(ctx context.Context) error {
	return c.SetProperty(ctx, "pause", false)
}

// Pause pauses playback
func (c *Client) Pause(ctx context.Context) error {
	return c.SetProperty(ctx, "pause", true)
}

// Paused reports the pause property
func (c *Client) Paused(ctx context.Context) (bool, error) {
	var paused bool
	err := c.Property(ctx, "pause", &paused)

	return paused, err
}

// Load replaces the current file with path
func (c *Client) Load(ctx context.Context, path string) error {
	if _, err := c.Command(ctx, "loadfile", path, "replace"); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}

	return nil
}

// Version returns the mpv-version property
func (c *Client) Version(ctx context.Context) (string, error) {
	var v string
	err := c.Property(ctx, "mpv-version", &v)

	return v, err
}

// Close closes the connection
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done

	return err
}

// MPVOptions configures the mpv process
type MPVOptions struct {
	Binary       string        // mpv executable (resolved with LocateBinary when empty)
	Args         []string      // Extra command-line arguments
	SocketDir    string        // Directory for the IPC socket (default os.TempDir, unused for Windows pipes)
	StartTimeout time.Duration // How long to wait for the socket
	Stderr       io.Writer     // mpv stderr (default discarded)
}

// MPV is a running mpv process controlled over IPC
type MPV struct {
	*Client

	cmd        *exec.Cmd
	socketPath string
	exited     chan struct{}
	closeOnce  sync.Once
}

// StartMPV launches mpv in idle mode and connects to its IPC socket
func StartMPV(ctx context.Context, opts MPVOptions) (*MPV, error) {
	binary, err := LocateBinary(opts.Binary)
	if err != nil {
		return nil, err
	}

	dir := opts.SocketDir
	if dir == "" {
		dir = os.TempDir()
	}

	socketPath := ipcAddress(dir, "video-marker-"+uuid.NewString())

	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--pause",
		"--input-ipc-server=" + socketPath,
	}
	args = append(args, opts.Args...)

	cmd := exec.Command(binary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	m := &MPV{
		cmd:        cmd,
		socketPath: socketPath,
		exited:     make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(m.exited)
	}()

	timeout := opts.StartTimeout
	if timeout <= 0 {
		timeout = defaultStartTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go func() {
		// Stop dialing early if mpv dies during startup
		select {
		case <-m.exited:
			cancel()
		case <-dialCtx.Done():
		}
	}()

	client, err := Dial(dialCtx, socketPath)
	if err != nil {
		m.kill()
		return nil, err
	}

	m.Client = client

	return m, nil
}

// SocketPath returns the IPC socket location
func (m *MPV) SocketPath() string {
	return m.socketPath
}

// Close asks mpv to quit, then kills it if it does not exit in time
func (m *MPV) Close() error {
	var err error

	m.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), quitWaitTimeout)
		defer cancel()

		_, _ = m.Command(ctx, "quit")
		err = m.Client.Close()

		select {
		case <-m.exited:
		case <-ctx.Done():
			m.kill()
		}

		removeIPC(m.socketPath)
	})

	return err
}

func (m *MPV) kill() {
	if m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}

	<-m.exited
	removeIPC(m.socketPath)
}

// LocateBinary resolves the mpv executable: explicit path, $VIDEO_MARKER_MPV, then $PATH
func LocateBinary(explicit string) (string, error) {
	for _, candidate := range []string{explicit, os.Getenv(BinaryEnvVar)} {
		if candidate == "" {
			continue
		}

		path, err := exec.LookPath(candidate)
		if err != nil {
			return "", fmt.Errorf("mpv binary %q not usable: %w", candidate, err)
		}

		return path, nil
	}

	path, err := exec.LookPath("mpv")
	if err != nil {
		return "", fmt.Errorf("mpv not found in PATH: %w", err)
	}

	return path, nil
}
