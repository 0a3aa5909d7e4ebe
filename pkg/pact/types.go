// Package pact provides the contract data model and pact file loading.
package pact

// Pacticipant identifies one side of a pact (consumer or provider).
type Pacticipant struct {
	Name string `json:"name"`
}

// Pact is one loaded contract file: an ordered set of recorded
// request/response interactions between a consumer and a provider.
type Pact struct {
	Consumer     Pacticipant    `json:"consumer"`
	Provider     Pacticipant    `json:"provider"`
	Interactions []*Interaction `json:"interactions"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Interaction is one recorded request/response contract entry.
// Interactions are created once at load time and never mutated.
type Interaction struct {
	Description    string
	ProviderStates []ProviderState
	Request        Request
	Response       Response
}

// ProviderState is a named precondition label on an interaction,
// disambiguating otherwise-identical expected requests.
type ProviderState struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Request describes an expected (or actual incoming) HTTP request.
// Header and query values are ordered; duplicates are preserved verbatim.
type Request struct {
	Method        string
	Path          string
	Query         map[string][]string
	Headers       map[string][]string
	Body          Body
	MatchingRules MatchingRules
}

// Response describes a canned HTTP response.
type Response struct {
	Status     int
	Headers    map[string][]string
	Body       Body
	Generators Generators
}

// DefaultResponse returns the response used when a pact file omits fields:
// status 200 with no headers and no body.
func DefaultResponse() Response {
	return Response{Status: 200, Body: MissingBody()}
}

// headerLookup returns the values for the named header, case-insensitively.
func headerLookup(headers map[string][]string, name string) ([]string, bool) {
	if vals, ok := headers[name]; ok {
		return vals, true
	}
	for k, vals := range headers {
		if equalFold(k, name) {
			return vals, true
		}
	}
	return nil, false
}

// HeaderValues returns the request header values for name (case-insensitive).
func (r *Request) HeaderValues(name string) ([]string, bool) {
	return headerLookup(r.Headers, name)
}

// HeaderValues returns the response header values for name (case-insensitive).
func (r *Response) HeaderValues(name string) ([]string, bool) {
	return headerLookup(r.Headers, name)
}

// equalFold is an ASCII-only case-insensitive comparison. Header names are
// ASCII per RFC 7230, so the unicode machinery of strings.EqualFold is not
// needed here.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
