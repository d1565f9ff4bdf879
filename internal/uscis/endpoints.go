package uscis

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Environment selects which Torch API host the client talks to. Sandbox and
// production expose identical contracts on different hosts.
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

const (
	sandboxBaseURL    = "https://api-int.uscis.gov"
	productionBaseURL = "https://api.uscis.gov"
)

// BaseURL returns the API host for the environment. Anything that is not
// production resolves to sandbox.
func (e Environment) BaseURL() string {
	if e == Production {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// TokenURL returns the OAuth token endpoint for the environment.
func (e Environment) TokenURL() string {
	return e.BaseURL() + "/oauth/token"
}

// Operation identifies one of the Torch API calls the console can issue.
type Operation string

const (
	OpCaseStatus        Operation = "case-status"
	OpFoiaRequestCreate Operation = "foia-request-create"
	OpFoiaStatus        Operation = "foia-status"
)

// Method returns the HTTP method for the operation.
func (o Operation) Method() string {
	if o == OpFoiaRequestCreate {
		return http.MethodPost
	}
	return http.MethodGet
}

// pathTemplate returns the operation's URL path with {param} placeholders.
func (o Operation) pathTemplate() (string, error) {
	switch o {
	case OpCaseStatus:
		return "/case-status/{receipt}", nil
	case OpFoiaRequestCreate:
		return "/foia/request", nil
	case OpFoiaStatus:
		return "/foia/status/{number}", nil
	default:
		return "", fmt.Errorf("unknown operation %q", string(o))
	}
}

// expandPath substitutes pathParams into the operation's path template.
// Every placeholder must be satisfied; values are path-escaped.
func (o Operation) expandPath(pathParams map[string]string) (string, error) {
	tmpl, err := o.pathTemplate()
	if err != nil {
		return "", err
	}

	path := tmpl
	for key, value := range pathParams {
		placeholder := "{" + key + "}"
		if !strings.Contains(path, placeholder) {
			return "", fmt.Errorf("operation %s has no path parameter %q", o, key)
		}
		if value == "" {
			return "", fmt.Errorf("path parameter %q must not be empty", key)
		}
		path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
	}
	if idx := strings.IndexByte(path, '{'); idx >= 0 {
		return "", fmt.Errorf("operation %s is missing a value for %s", o, path[idx:])
	}
	return path, nil
}

// SandboxTestReceipts are the receipt numbers the USCIS sandbox recognizes,
// published in the developer portal documentation.
var SandboxTestReceipts = []string{
	"EAC9999103402",
	"WAC9999103402",
	"LIN9999103402",
}
