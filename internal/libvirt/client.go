package libvirt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
)

const (
	// DefaultSocket is the libvirtd UNIX socket for qemu:///system.
	DefaultSocket = "/var/run/libvirt/libvirt-sock"

	// DefaultTimeout bounds the dial when the caller does not supply
	// a timeout.
	DefaultTimeout = 5 * time.Second
)

// errNotConnected reports use of a Client before Connect or after Close.
var errNotConnected = errors.New("not connected to libvirt")

// Client owns a single RPC connection to the libvirt daemon.
type Client struct {
	libvirt *libvirt.Libvirt
}

// Connect dials the local libvirt daemon over its UNIX socket and runs the
// protocol handshake. An empty socketPath selects DefaultSocket, a zero
// timeout selects DefaultTimeout. The returned Client must be released
// with Close.
func Connect(socketPath string, timeout time.Duration) (*Client, error) {
	if socketPath == "" {
		socketPath = DefaultSocket
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	l := libvirt.NewWithDialer(dialers.NewLocal(
		dialers.WithSocket(socketPath),
		dialers.WithLocalTimeout(timeout),
	))
	if err := l.Connect(); err != nil {
		return nil, fmt.Errorf("failed to dial libvirt socket %s: %w", socketPath, err)
	}

	return &Client{libvirt: l}, nil
}

// ConnectWithContext is Connect bounded by ctx. The underlying dial cannot
// be interrupted midway, so cancellation abandons the attempt; if the dial
// completes afterwards anyway, the connection is closed rather than leaked.
func ConnectWithContext(ctx context.Context, socketPath string, timeout time.Duration) (*Client, error) {
	type outcome struct {
		c   *Client
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		c, err := Connect(socketPath, timeout)
		done <- outcome{c, err}
	}()

	select {
	case out := <-done:
		return out.c, out.err
	case <-ctx.Done():
		go func() {
			if out := <-done; out.c != nil {
				_ = out.c.Close()
			}
		}()
		return nil, fmt.Errorf("libvirt dial abandoned: %w", ctx.Err())
	}
}

// Close disconnects from the daemon. Closing an already closed Client is
// a no-op.
func (c *Client) Close() error {
	if c.libvirt == nil {
		return nil
	}
	if err := c.libvirt.Disconnect(); err != nil {
		return fmt.Errorf("failed to close libvirt connection: %w", err)
	}
	c.libvirt = nil
	return nil
}

// Libvirt exposes the underlying go-libvirt client for the typed secret
// calls. Returns nil once the Client has been closed.
func (c *Client) Libvirt() *libvirt.Libvirt {
	return c.libvirt
}

// Ping issues a cheap RPC to verify the daemon still answers.
func (c *Client) Ping() error {
	if c.libvirt == nil {
		return errNotConnected
	}
	if _, err := c.libvirt.ConnectGetLibVersion(); err != nil {
		return fmt.Errorf("libvirt stopped answering: %w", err)
	}
	return nil
}

// Version returns the libvirt library version on the host in
// major.minor.release form.
func (c *Client) Version() (string, error) {
	if c.libvirt == nil {
		return "", errNotConnected
	}

	version, err := c.libvirt.ConnectGetLibVersion()
	if err != nil {
		return "", fmt.Errorf("failed to read libvirt version: %w", err)
	}

	// Encoded as major * 1,000,000 + minor * 1,000 + release
	return fmt.Sprintf("%d.%d.%d", version/1000000, (version/1000)%1000, version%1000), nil
}

// Hostname returns the hostname of the connected hypervisor.
func (c *Client) Hostname() (string, error) {
	if c.libvirt == nil {
		return "", errNotConnected
	}

	hostname, err := c.libvirt.ConnectGetHostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hypervisor hostname: %w", err)
	}

	return hostname, nil
}
