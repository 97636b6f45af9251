package client

import "net/http"

// DefaultBaseUrl is the production api host.
const DefaultBaseUrl = "https://api.vimeo.com"

type Client struct {
	baseUrl    string
	serializer *RequestSerializer
	http       *http.Client
}

// NewClient constructs a new object that handles the api's http
// requests: every request it builds goes through the serializer's
// header decoration pipeline before being handed to the transport.
// An empty baseUrl falls back to DefaultBaseUrl.
func NewClient(baseUrl string, opts Options) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return &Client{
		baseUrl:    baseUrl,
		serializer: NewRequestSerializer(opts),
		http:       http.DefaultClient,
	}
}

// WithHTTPClient replaces the transport used to execute requests.
// Useful for tests and for callers owning timeout policy.
func (client *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		client.http = httpClient
	}
	return client
}

// Serializer exposes the client's request serializer for flows that
// construct their requests elsewhere (e.g. uploads) and only need
// the decoration step.
func (client *Client) Serializer() *RequestSerializer {
	return client.serializer
}
