package sbapi

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/jake-scott/switchbot-cli/internal/pkg/jsonvalue"
	"github.com/jake-scott/switchbot-cli/internal/pkg/logging"
	"github.com/jake-scott/switchbot-cli/internal/pkg/sbauth"
	"github.com/jake-scott/switchbot-cli/pkg/transport"
)

// Responses are truncated at this size, which then fails to parse
const maxResponseSize = 10 * 1024 * 1024

type Live struct {
	endpoint   string
	signer     *sbauth.Signer
	httpClient *http.Client
	timeout    time.Duration
	ctx        context.Context
}

// NewLiveClient builds a client for the API described by cfg.  The
// credential is checked when each request is signed, so an incomplete one
// fails every call before anything is sent.
func NewLiveClient(cfg Config) *Live {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Live{
		endpoint: cfg.Endpoint(),
		signer:   sbauth.NewSigner(sbauth.Credential{Token: cfg.Token, Secret: cfg.Secret}),
		httpClient: &http.Client{
			Transport: transport.NewLoggingTransport(http.DefaultTransport, cfg.LogRequests),
		},
		timeout: timeout,
		ctx:     context.Background(),
	}
}

func (c *Live) WithContext(ctx context.Context) SwitchBot {
	nc := *c
	nc.ctx = ctx
	return &nc
}

func (c *Live) WithTimeout(d time.Duration) SwitchBot {
	nc := *c
	nc.timeout = d
	return &nc
}

func (c *Live) WithSigner(s *sbauth.Signer) *Live {
	nc := *c
	nc.signer = s
	return &nc
}

func (c *Live) WithHTTPClient(hc *http.Client) *Live {
	nc := *c
	nc.httpClient = hc
	return &nc
}

func (c *Live) MakeContext() (context.Context, context.CancelFunc) {
	var ctx = c.ctx
	var cancel context.CancelFunc = func() {}
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	return ctx, cancel
}

func (c *Live) Devices() (jsonvalue.Value, error) {
	v, err := c.get("/devices")
	if err != nil {
		return jsonvalue.Value{}, errors.Wrap(err, "listing devices")
	}

	return v, nil
}

func (c *Live) DeviceStatus(deviceID string) (jsonvalue.Value, error) {
	if deviceID == "" {
		return jsonvalue.Value{}, errors.New("fetching device status: empty device ID")
	}

	v, err := c.get("/devices/" + url.PathEscape(deviceID) + "/status")
	if err != nil {
		return jsonvalue.Value{}, errors.Wrapf(err, "fetching status of device %s", deviceID)
	}

	return v, nil
}

func (c *Live) get(path string) (jsonvalue.Value, error) {
	headers, err := c.signer.Headers()
	if err != nil {
		return jsonvalue.Value{}, err
	}

	ctx, cancel := c.MakeContext()
	defer cancel()
	ctx = logging.WithTxnID(ctx, headers.Nonce)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return jsonvalue.Value{}, errors.Wrap(err, "building request")
	}
	headers.Apply(req)

	logging.Logger(ctx).Debugf("GET %s%s", c.endpoint, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return jsonvalue.Value{}, errors.Wrapf(err, "executing GET %s", path)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return jsonvalue.Value{}, errors.Wrap(err, "reading response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return jsonvalue.Value{}, newStatusError(path, resp, body)
	}

	// the body decides; a wrong label is only worth a warning
	if !isJSONContent(resp) {
		logging.Logger(ctx).Warnf("GET %s: response labelled %s, parsing it as JSON", path, resp.Header.Get("Content-Type"))
	}

	v, err := jsonvalue.Parse(body)
	if err != nil {
		return jsonvalue.Value{}, errors.Wrapf(err, "parsing response from %s", path)
	}

	return v, nil
}
