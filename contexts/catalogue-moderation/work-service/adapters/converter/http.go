package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "bibliotheque/contexts/catalogue-moderation/work-service/domain/errors"
	"bibliotheque/contexts/catalogue-moderation/work-service/ports"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 32 << 20

// HTTPConverter calls the external PDF to markdown service:
// POST {base}/convert with the PDF as body, answered by {"markdown": "..."}.
type HTTPConverter struct {
	client   *retryablehttp.Client
	endpoint string
	logger   *slog.Logger
}

type Options struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	Logger   *slog.Logger
}

func NewHTTPConverter(opts Options) (*HTTPConverter, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid converter url %q", opts.BaseURL)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.Logger = logger
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	client.HTTPClient.Transport = otelhttp.NewTransport(client.HTTPClient.Transport)

	return &HTTPConverter{
		client:   client,
		endpoint: base.JoinPath("convert").String(),
		logger:   logger,
	}, nil
}

func (c *HTTPConverter) Convert(ctx context.Context, document []byte, options ports.ConversionOptions) (string, error) {
	query := url.Values{}
	if options.DPI > 0 {
		query.Set("dpi", strconv.Itoa(options.DPI))
	}
	if options.Language != "" {
		query.Set("lang", options.Language)
	}
	if options.LeftMarginRatio > 0 {
		query.Set("left_margin_ratio", strconv.FormatFloat(options.LeftMarginRatio, 'f', -1, 64))
	}
	target := c.endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(document))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/pdf")
	request.Header.Set("Accept", "application/json")

	started := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrConversionFailed, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domainerrors.ErrConversionFailed, err)
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: converter answered %d", domainerrors.ErrConversionFailed, response.StatusCode)
	}

	var payload struct {
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domainerrors.ErrConversionFailed, err)
	}
	c.logger.Debug("document converted",
		"event", "work_document_converted",
		"module", "catalogue-moderation/work-service",
		"layer", "adapter",
		"document_bytes", len(document),
		"markdown_bytes", len(payload.Markdown),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return payload.Markdown, nil
}

// Unavailable is used when no converter is configured; every conversion fails.
type Unavailable struct{}

func (Unavailable) Convert(context.Context, []byte, ports.ConversionOptions) (string, error) {
	return "", fmt.Errorf("%w: no converter configured", domainerrors.ErrConversionFailed)
}
