package stub

import (
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// Headers of the synthetic permissive preflight response.
const (
	corsAllowHeaders = "*"
	corsAllowMethods = "GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH"
	corsAllowOrigin  = "*"
)

// corsPreflightResponse is the synthetic response for an unmatched OPTIONS
// request when auto-CORS is enabled.
func corsPreflightResponse() *pact.Response {
	return &pact.Response{
		Status: 200,
		Headers: map[string][]string{
			"Access-Control-Allow-Headers": {corsAllowHeaders},
			"Access-Control-Allow-Methods": {corsAllowMethods},
			"Access-Control-Allow-Origin":  {corsAllowOrigin},
		},
		Body: pact.MissingBody(),
	}
}
