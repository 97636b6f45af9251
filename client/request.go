// Package client implements the http layer of the Vimeo API sdk:
// a request wrapper, the request serializer and the header
// decoration pipeline (Accept, Authorization, User-Agent).
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Parameters is the arbitrary key/value structure serialized onto a
// request: into the query string for GET requests, into a json body
// for every other verb.
type Parameters map[string]interface{}

// PathParam replaces a `{K}` placeholder in an endpoint path.
type PathParam struct {
	K string
	V string
}

type Request struct {
	*http.Request
	client *http.Client
}

// NewRequest constructs a new http request with url equal to the
// client's baseUrl + the provided endpoint, serializes the provided
// parameters onto it and decorates it with the client's headers.
// Returns an error if the endpoint still contains unresolved
// path placeholders.
func (client *Client) NewRequest(method string, endpoint string, params Parameters, pathParams ...PathParam) (*Request, error) {
	url, err := client.newUrl(endpoint, pathParams...)
	if err != nil {
		return nil, err
	}
	req, err := client.serializer.BuildRequest(method, url, params)
	if err != nil {
		return nil, err
	}
	req.client = client.http
	return req, nil
}

// AddBody marshalls the provided value to json and
// sets it as the request's body.
func (r *Request) AddBody(v interface{}) error {
	jsonValue, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(jsonValue))
	r.ContentLength = int64(len(jsonValue))
	return nil
}

func (r *Request) SetHeader(k string, v string) *Request {
	r.Header.Set(k, v)
	return r
}

func (r *Request) AddQueryParam(k string, v string) *Request {
	q := r.URL.Query()
	q.Add(k, v)
	r.URL.RawQuery = q.Encode()
	return r
}

// Do sends the http request and returns the response.
func (r *Request) Do() (*http.Response, error) {
	return r.httpClient().Do(r.Request)
}

// DoAndRead sends the http request and reads the response's body.
func (r *Request) DoAndRead() ([]byte, error) {
	resp, err := r.Do()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"%s: %s",
			resp.Status,
			strings.TrimSpace(string(body)),
		)
	}
	return body, nil
}

// DoAndUnmarshall sends the http request and unmarshalls
// the response's body to the provided value.
func (r *Request) DoAndUnmarshall(i interface{}) error {
	body, err := r.DoAndRead()
	if err != nil {
		return err
	}
	return json.Unmarshal(body, i)
}

// Url returns the request's url as a string.
func (request *Request) Url() string {
	return request.URL.String()
}

func (r *Request) httpClient() *http.Client {
	if r.client == nil {
		return http.DefaultClient
	}
	return r.client
}

func (client *Client) newUrl(endpoint string, pathParams ...PathParam) (string, error) {
	for _, p := range pathParams {
		endpoint = strings.ReplaceAll(
			endpoint,
			fmt.Sprintf("{%s}", p.K),
			p.V,
		)
	}
	if c := strings.Count(endpoint, "{"); c > 0 {
		return "", errors.New(fmt.Sprintf(
			"Did not get all the required "+
				"path params for the endpoint '%s'",
			endpoint,
		))
	}
	return client.baseUrl + endpoint, nil
}
