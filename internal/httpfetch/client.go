package httpfetch

import (
	"context"
	"discord-finder/internal/telemetry"
	"net/http"
	"time"
	"unicode/utf8"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_get  = "client.get"
	report_client_dump = "client.dump"
)

const DefaultTimeout = 30 * time.Second

type ClientOptions struct {
	// Timeout bounds a whole request, if zero DefaultTimeout is used.
	Timeout time.Duration
	// CloudflareBypass wraps the transport so that pages guarded by cloudflare's
	// browser check can still be fetched.
	CloudflareBypass bool
	// TracerName is the name of the tracer used to instrument requests, defaults to "httpfetch".
	TracerName string
	// DumpDir, if set, is a directory that receives a plain text copy of every request and
	// response.
	DumpDir string
}

// Client performs single GET requests without retries and reduces every failure to an Error.
// It is safe for concurrent use.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API, opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TracerName == "" {
		opts.TracerName = "httpfetch"
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)
	if opts.CloudflareBypass {
		transport := client.GetClient().Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(transport)
	}
	telemetry.InstrumentResty(client, opts.TracerName, tel)
	if opts.DumpDir != "" {
		output, err := newDumpOutput(opts.DumpDir)
		if err != nil {
			tel.ReportBroken(report_client_dump, err, opts.DumpDir)
		} else {
			client.OnAfterResponse(output.onAfterResponse)
		}
	}

	return &Client{http: client, tel: tel}
}

// Response is a completed request whose body is known to be valid UTF-8 text.
type Response struct {
	Status int
	Body   string
}

// Get requests `url` with the headers of `profile`.
//
// A request that does not complete fails with ErrTimeout, a body that is not text fails with
// ErrInvalidResponse. The status code is not inspected.
func (c *Client) Get(ctx context.Context, url string, profile Profile) (Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(profile.Headers).
		Get(url)
	if err != nil {
		return Response{}, ErrTimeout
	}

	body := res.Body()
	if !utf8.Valid(body) {
		c.tel.ReportWarning(report_client_get, "response body is not utf-8", profile.Name, url)
		return Response{}, ErrInvalidResponse
	}

	return Response{
		Status: res.StatusCode(),
		Body:   string(body),
	}, nil
}
