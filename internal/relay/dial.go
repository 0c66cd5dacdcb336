package relay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultDialTimeout bounds how long Dial waits for the connect event.
const DefaultDialTimeout = 15 * time.Second

// ErrDial is returned when no socket.io connection could be established.
var ErrDial = errors.New("socket.io connection failed")

// DialConfig describes the socket.io endpoint.
type DialConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout defaults to DefaultDialTimeout.
	Timeout time.Duration
}

// Dial connects a websocket-only socket.io client and waits until the
// server accepts it.
func Dial(ctx context.Context, cfg DialConfig) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace)

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse relay URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: relay URL %q needs a scheme and host", ErrDial, cfg.URL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	base := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	io := socket.NewManager(base, opts).Socket(namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		cause := fmt.Errorf("%v", errs)
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				cause = e
			}
		}
		connected <- cause
	})

	logger.Debug("Connecting relay.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("%w: %w", ErrDial, err)
		}
		logger.Info("Relay connected.", "sid", io.Id())
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("%w: %w", ErrDial, ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("%w: timed out after %s", ErrDial, timeout)
	}
}

// Close disconnects a client returned by Dial.
func Close(ctx context.Context, client *socket.Socket) {
	ctxlog.FromContext(ctx).Info("Disconnecting relay.", "sid", client.Id())
	client.Disconnect()
}
