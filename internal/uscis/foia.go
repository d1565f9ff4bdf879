package uscis

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// DefaultFOIARequestType is used when a FOIA request does not specify one.
const DefaultFOIARequestType = "ALIEN_FILE"

// FOIARequestInput describes the subject of a new FOIA/Privacy Act request.
// Dates use the MM-DD-YYYY format the API expects.
type FOIARequestInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	CountryOfBirth string `json:"country_of_birth"`
	AlienNumber    string `json:"alien_number,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
	RequestType    string `json:"request_type,omitempty"`
}

// Validate checks the fields the API rejects requests without.
func (in FOIARequestInput) Validate() error {
	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("foia request: subject first and last name are required")
	}
	if in.DateOfBirth == "" {
		return fmt.Errorf("foia request: subject date of birth is required (MM-DD-YYYY)")
	}
	if in.CountryOfBirth == "" {
		return fmt.Errorf("foia request: subject country of birth is required")
	}
	return nil
}

// payload builds the wire-format body with the field names the FOIA API uses.
func (in FOIARequestInput) payload() map[string]string {
	requestType := in.RequestType
	if requestType == "" {
		requestType = DefaultFOIARequestType
	}
	p := map[string]string{
		"subjectFirstName":      in.FirstName,
		"subjectLastName":       in.LastName,
		"subjectDateOfBirth":    in.DateOfBirth,
		"subjectCountryOfBirth": in.CountryOfBirth,
		"requestType":           requestType,
	}
	if in.AlienNumber != "" {
		p["alienNumber"] = in.AlienNumber
	}
	if in.RequesterEmail != "" {
		p["requesterEmail"] = in.RequesterEmail
	}
	return p
}

// FOIARequest is a created or looked-up FOIA request as the API reports it.
type FOIARequest struct {
	RequestNumber string `json:"request_number,omitempty"`
	Status        string `json:"status,omitempty"`
	CreatedDate   string `json:"created_date,omitempty"`
	Raw           []byte `json:"-"`
}

type foiaEnvelope struct {
	RequestNumber string `json:"requestNumber"`
	Status        string `json:"status"`
	CreatedDate   string `json:"createdDate"`
}

// CreateFOIARequest files a new FOIA request and returns the tracking
// number the API assigns. A non-2xx upstream response maps to *APIError.
func (c *Client) CreateFOIARequest(ctx context.Context, in FOIARequestInput) (*FOIARequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(in.payload())
	if err != nil {
		return nil, fmt.Errorf("foia request: marshal payload: %w", err)
	}

	resp, err := c.Call(ctx, OpFoiaRequestCreate, nil, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}

	var env foiaEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "unparseable FOIA response", Body: string(resp.Body)}
	}
	return &FOIARequest{
		RequestNumber: env.RequestNumber,
		Status:        env.Status,
		CreatedDate:   env.CreatedDate,
		Raw:           resp.Body,
	}, nil
}

// FOIAStatus looks up an existing FOIA request by tracking number.
func (c *Client) FOIAStatus(ctx context.Context, number string) (*FOIARequest, error) {
	resp, err := c.Call(ctx, OpFoiaStatus, map[string]string{"number": number}, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}

	var env foiaEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "unparseable FOIA response", Body: string(resp.Body)}
	}
	req := &FOIARequest{
		RequestNumber: env.RequestNumber,
		Status:        env.Status,
		CreatedDate:   env.CreatedDate,
		Raw:           resp.Body,
	}
	if req.RequestNumber == "" {
		req.RequestNumber = number
	}
	return req, nil
}
