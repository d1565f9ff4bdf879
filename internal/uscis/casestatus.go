package uscis

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// CaseStatus is the decoded Case Status API response for one receipt.
type CaseStatus struct {
	ReceiptNumber string `json:"receipt_number"`
	FormType      string `json:"form_type"`
	SubmittedDate string `json:"submitted_date,omitempty"`
	ModifiedDate  string `json:"modified_date,omitempty"`
	StatusTextEN  string `json:"status_text_en"`
	StatusDescEN  string `json:"status_desc_en"`
	StatusTextES  string `json:"status_text_es,omitempty"`
	StatusDescES  string `json:"status_desc_es,omitempty"`
	// History holds prior status entries when the API includes them.
	History []map[string]interface{} `json:"history,omitempty"`
	Raw     []byte                   `json:"-"`
}

type caseStatusEnvelope struct {
	CaseStatus struct {
		ReceiptNumber string                   `json:"receiptNumber"`
		FormType      string                   `json:"formType"`
		SubmittedDate string                   `json:"submittedDate"`
		ModifiedDate  string                   `json:"modifiedDate"`
		StatusTextEN  string                   `json:"current_case_status_text_en"`
		StatusDescEN  string                   `json:"current_case_status_desc_en"`
		StatusTextES  string                   `json:"current_case_status_text_es"`
		StatusDescES  string                   `json:"current_case_status_desc_es"`
		History       []map[string]interface{} `json:"hist_case_status"`
	} `json:"case_status"`
}

// CaseStatus looks up one receipt number and decodes the case_status
// envelope. A non-2xx upstream response maps to *APIError.
func (c *Client) CaseStatus(ctx context.Context, receipt string) (*CaseStatus, error) {
	resp, err := c.Call(ctx, OpCaseStatus, map[string]string{"receipt": receipt}, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}

	var env caseStatusEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "unparseable case status response", Body: string(resp.Body)}
	}

	status := &CaseStatus{
		ReceiptNumber: env.CaseStatus.ReceiptNumber,
		FormType:      env.CaseStatus.FormType,
		SubmittedDate: env.CaseStatus.SubmittedDate,
		ModifiedDate:  env.CaseStatus.ModifiedDate,
		StatusTextEN:  env.CaseStatus.StatusTextEN,
		StatusDescEN:  env.CaseStatus.StatusDescEN,
		StatusTextES:  env.CaseStatus.StatusTextES,
		StatusDescES:  env.CaseStatus.StatusDescES,
		History:       env.CaseStatus.History,
		Raw:           resp.Body,
	}
	if status.ReceiptNumber == "" {
		status.ReceiptNumber = receipt
	}
	return status, nil
}

// CaseStatusBatch looks receipts up sequentially, collecting per-receipt
// results and errors instead of stopping at the first failure.
func (c *Client) CaseStatusBatch(ctx context.Context, receipts []string) (map[string]*CaseStatus, map[string]error) {
	results := make(map[string]*CaseStatus)
	errs := make(map[string]error)
	for _, receipt := range receipts {
		status, err := c.CaseStatus(ctx, receipt)
		if err != nil {
			errs[receipt] = err
			c.logger.Error().Err(err).Str("receipt", receipt).Msg("Batch case status lookup failed")
			continue
		}
		results[receipt] = status
	}
	return results, errs
}

type errorEnvelope struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		TraceID string `json:"traceId"`
	} `json:"errors"`
}

// apiErrorFrom builds an *APIError from a non-2xx response, pulling
// code/message/traceId out of the errors envelope when it parses.
func apiErrorFrom(resp *APIResponse) *APIError {
	apiErr := &APIError{
		Status: resp.StatusCode,
		Code:   fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Body:   string(resp.Body),
	}

	var env errorEnvelope
	if err := json.Unmarshal(resp.Body, &env); err == nil && len(env.Errors) > 0 {
		first := env.Errors[0]
		if first.Code != "" {
			apiErr.Code = first.Code
		}
		apiErr.Message = first.Message
		apiErr.TraceID = first.TraceID
	}

	if apiErr.Message == "" {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			apiErr.Message = "authentication failed - check your credentials"
		case http.StatusNotFound:
			apiErr.Message = "endpoint or record not found"
		case http.StatusServiceUnavailable:
			apiErr.Message = "USCIS API unavailable (sandbox hours are Mon-Fri 7AM-8PM EST)"
		}
	}
	return apiErr
}
