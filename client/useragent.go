package client

import "strings"

// FrameworkName is the identifier appended to the User-Agent header
// of every request built by this sdk.
const FrameworkName = "VimeoNetworking"

// applyUserAgent tags the request's User-Agent with
// `<FrameworkName>/<version>`. An existing user-agent is kept and the
// tag appended after a space; without one the header becomes exactly
// the tag. A request that already carries the tag is left alone, so
// repeated decoration never grows the header. When no framework
// version was configured the header stays untouched and a warning is
// logged, as there is nothing meaningful to append.
func (s *RequestSerializer) applyUserAgent(req *Request) {
	if s.frameworkVersion == "" {
		s.log.Warn(
			"Framework version unavailable, " +
				"leaving the User-Agent header untouched",
		)
		return
	}
	tag := s.frameworkName + "/" + s.frameworkVersion
	existing := req.Header.Get(headerUserAgent)
	if existing == "" {
		req.Header.Set(headerUserAgent, tag)
		return
	}
	// The tag only counts as present when it is its own
	// space-separated product token, not glued to another one.
	if existing == tag || strings.HasSuffix(existing, " "+tag) {
		return
	}
	req.Header.Set(headerUserAgent, existing+" "+tag)
}
