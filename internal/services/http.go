package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/samber/do"
)

// ServiceHTTP wraps outbound HTTP with retries and backoff. Transient upstream
// failures (Twitch hiccups mostly) get three attempts before surfacing.
type ServiceHTTP struct {
	container *do.Injector
	client    *httpclient.Client
}

func NewServiceHTTP(container *do.Injector) (*ServiceHTTP, error) {
	backoff := heimdall.NewExponentialBackoff(100*time.Millisecond, 2*time.Second, 2, 100*time.Millisecond)
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(10*time.Second),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		httpclient.WithRetryCount(3),
	)

	return &ServiceHTTP{container, client}, nil
}

// GetJSON issues a GET and decodes a 2xx JSON body into out.
func (service *ServiceHTTP) GetJSON(ctx context.Context, rawURL string, headers http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header = headers

	return service.doJSON(req, out)
}

// PostFormJSON issues a form-encoded POST and decodes a 2xx JSON body into out.
func (service *ServiceHTTP) PostFormJSON(ctx context.Context, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return service.doJSON(req, out)
}

func (service *ServiceHTTP) doJSON(req *http.Request, out any) error {
	res, err := service.client.Do(req)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, res.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}
