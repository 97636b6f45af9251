package client

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	headerUserAgent     = "User-Agent"

	// acceptFormat is the vendored json media type the api serves,
	// versioned per request through the Accept header.
	acceptFormat = "application/vnd.vimeo.*+json; version=%s"
)

// Options configures a RequestSerializer. TokenProvider and App are
// the two credential sources: the provider is rechecked on every
// request and wins whenever it yields a non-empty token, the app
// configuration backs it up with basic auth. Leaving both unset
// produces unauthenticated requests.
type Options struct {
	TokenProvider AccessTokenProvider
	App           *AppConfiguration

	APIVersion string

	// FrameworkName/FrameworkVersion identify this sdk in the
	// User-Agent header. The name defaults to FrameworkName; an
	// empty version disables user-agent decoration.
	FrameworkName    string
	FrameworkVersion string

	Logger *log.Logger
}

// RequestSerializer builds outbound api requests and decorates them
// with the Accept, Authorization and User-Agent headers. It holds
// only immutable configuration plus the injected token provider, so
// every method is safe for concurrent use.
type RequestSerializer struct {
	tokens           AccessTokenProvider
	app              *AppConfiguration
	defaultHeaders   map[string]string
	frameworkName    string
	frameworkVersion string
	log              *log.Logger
}

// NewRequestSerializer constructs an object that handles serializing
// and authorizing the api requests.
func NewRequestSerializer(opts Options) *RequestSerializer {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	name := opts.FrameworkName
	if name == "" {
		name = FrameworkName
	}
	headers := make(map[string]string)
	headers[headerAccept] = fmt.Sprintf(acceptFormat, opts.APIVersion)
	return &RequestSerializer{
		tokens:           opts.TokenProvider,
		app:              opts.App,
		defaultHeaders:   headers,
		frameworkName:    name,
		frameworkVersion: opts.FrameworkVersion,
		log:              logger,
	}
}

// BuildRequest constructs a request for the provided method and url,
// serializes the parameters onto it and runs the header decoration
// pipeline. Construction errors are returned unchanged.
func (s *RequestSerializer) BuildRequest(method string, urlString string, params Parameters) (*Request, error) {
	req, err := newJSONRequest(method, urlString, params)
	if err != nil {
		return nil, err
	}
	s.Decorate(req)
	return req, nil
}

// DecorateRequest re-serializes the parameters onto an
// already-constructed request (used by multipart/upload flows that
// build their request elsewhere) and then runs the same header
// decoration pipeline. Returns no request if the
// re-serialization fails.
func (s *RequestSerializer) DecorateRequest(req *Request, params Parameters) (*Request, error) {
	if err := serializeParameters(req, params); err != nil {
		return nil, err
	}
	s.Decorate(req)
	return req, nil
}

// Decorate applies the default, authorization and user-agent headers
// to the request. Decorating the same request twice is a no-op:
// every header is overwritten, never duplicated.
func (s *RequestSerializer) Decorate(req *Request) {
	for k, v := range s.defaultHeaders {
		req.Header.Set(k, v)
	}
	s.applyAuthorization(req)
	s.applyUserAgent(req)
}

// applyAuthorization picks the authorization scheme: a non-empty
// bearer token always wins, the static app configuration backs it up
// with basic auth, otherwise the header stays unset.
func (s *RequestSerializer) applyAuthorization(req *Request) {
	if token := bearerToken(s.tokens); token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
		return
	}
	if s.app != nil {
		req.Header.Set(headerAuthorization, "Basic "+s.app.basicAuthValue())
	}
}

// newJSONRequest is the base request builder: it encodes the
// parameters into the query string for GET requests and into a json
// body for every other verb.
func newJSONRequest(method string, urlString string, params Parameters) (*Request, error) {
	r, err := http.NewRequest(method, urlString, nil)
	if err != nil {
		return nil, err
	}
	req := &Request{Request: r}
	if err := serializeParameters(req, params); err != nil {
		return nil, err
	}
	return req, nil
}

func serializeParameters(req *Request, params Parameters) error {
	if len(params) == 0 {
		return nil
	}
	if req.Method == http.MethodGet {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, fmt.Sprint(v))
		}
		req.URL.RawQuery = q.Encode()
		return nil
	}
	if err := req.AddBody(params); err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return nil
}
