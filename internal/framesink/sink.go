package framesink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event frames are emitted under.
const DefaultEvent = "frame"

// Options configures Dial.
type Options struct {
	// Namespace is the socket.io namespace. Defaults to the URL fragment,
	// or "/".
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Publisher emits frames on a connected socket.
type Publisher struct {
	mu     sync.Mutex
	logger *slog.Logger
	event  string
	emit   func(event string, payload map[string]any)
	close  func()
	sent   int
}

// Dial connects to the socket.io server at rawURL and waits for the
// connection to be accepted.
func Dial(ctx context.Context, rawURL string, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "framesink", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("frame sink URL %q needs a scheme and a host", rawURL)
	}
	if opts.Namespace == "" {
		opts.Namespace = parsedURL.Fragment
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Frame sink connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Connecting frame sink...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("frame sink connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for frame sink connection")
	case <-time.After(opts.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for frame sink connection", opts.Timeout)
	}

	return &Publisher{
		logger: logger,
		event:  opts.Event,
		emit:   func(event string, payload map[string]any) { io.Emit(event, payload) },
		close:  func() { io.Disconnect() },
	}, nil
}

// Publish emits one rendered frame. errText is empty for frames that
// finished without a script error.
func (p *Publisher) Publish(number uint64, text, errText string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	payload := map[string]any{"frame": number, "text": text}
	if errText != "" {
		payload["error"] = errText
	}
	p.emit(p.event, payload)
	p.sent++
	p.logger.Debug("Frame published.", "frame", number, "bytes", len(text))
}

// Sent is the number of frames published so far.
func (p *Publisher) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

func (p *Publisher) Close() {
	p.logger.Info("Closing frame sink", "sent", p.Sent())
	p.close()
}
