package bridge

import (
	"context"
	"log/slog"
	"maps"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/thoreinstein/mcpbridge/internal/logging"
	"github.com/thoreinstein/mcpbridge/internal/mcp"
)

// HTTPConnector reaches servers over the streamable HTTP transport.
type HTTPConnector struct {
	Logger     *slog.Logger
	ClientInfo mcpgo.Implementation

	// HTTPClient, when set, replaces the transport's default client.
	HTTPClient *http.Client
}

// NewHTTPConnector returns an HTTPConnector logging to logger.
func NewHTTPConnector(logger *slog.Logger) *HTTPConnector {
	return &HTTPConnector{Logger: logger, ClientInfo: DefaultClientInfo}
}

// Connect opens a streamable HTTP session with the configured headers
// attached to every request, then performs the handshake.
func (c *HTTPConnector) Connect(ctx context.Context, namespace string, server *mcp.Server) (*Link, error) {
	if server.URL == "" {
		return nil, &ConfigurationError{
			Namespace: namespace,
			Key:       "servers." + namespace + ".url",
			Reason:    "http servers require a url",
		}
	}

	logger := c.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}
	logger = logger.With("namespace", namespace)

	opts := []transport.StreamableHTTPCOption{
		transport.WithHTTPLogger(sdkLogger{logger}),
	}
	if hc := c.httpClient(server.Headers); hc != nil {
		opts = append(opts, transport.WithHTTPBasicClient(hc))
	}

	logger.Debug("opening http session",
		"url", logging.MaskURL(server.URL),
		"headers", logging.MaskSecrets(server.Headers))

	cl, err := client.NewStreamableHttpClient(server.URL, opts...)
	if err != nil {
		return nil, &ConnectionError{
			Namespace: namespace,
			Target:    maskedTarget(server),
			Err:       errors.Wrap(err, "creating http transport"),
		}
	}

	info := c.ClientInfo
	if info.Name == "" {
		info = DefaultClientInfo
	}
	return handshake(ctx, namespace, server, cl, info, logger)
}

// httpClient returns the client the transport should use, or nil for the
// transport's default. Configured headers ride on the client's round
// tripper so every request carries them, including the DELETE that ends
// the session.
func (c *HTTPConnector) httpClient(headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return c.HTTPClient
	}

	hc := &http.Client{}
	if c.HTTPClient != nil {
		clone := *c.HTTPClient
		hc = &clone
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &headerTransport{base: base, headers: maps.Clone(headers)}
	return hc
}

// headerTransport sets fixed headers on every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
