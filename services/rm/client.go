package rmsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

// apiError is a non-2xx response from a downstream service.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("downstream service returned %d: %s", e.Status, e.Body)
}

func isNotFound(err error) bool {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

// client is a thin JSON-over-HTTP client for one downstream service.
// All downstream services share the same basic-auth service account.
type client struct {
	baseURL string
	user    string
	pass    string
	http    *http.Client
}

func newClient(baseURL string, conf *core.Config) *client {
	return &client{
		baseURL: baseURL,
		user:    conf.RM.ServiceUser,
		pass:    conf.RM.ServicePassword,
		http:    &http.Client{Timeout: conf.RM.ClientTimeout},
	}
}

func (c *client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *client) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, url)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		data, _ := ioutil.ReadAll(io.LimitReader(res.Body, 1<<12))
		return &apiError{Status: res.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding response from %s", url)
		}
	}
	return nil
}

func (c *client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.url(path, query), nil, out)
}

func (c *client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.url(path, nil), in, out)
}

func (c *client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, c.url(path, nil), in, out)
}

func (c *client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, c.url(path, nil), nil, nil)
}
