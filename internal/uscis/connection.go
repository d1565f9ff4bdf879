package uscis

import (
	"context"
	"time"
)

// CheckResult is the outcome of one connection-test step.
type CheckResult struct {
	Success     bool   `json:"success"`
	TestReceipt string `json:"test_receipt,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ConnectionReport summarizes a connection test for display.
type ConnectionReport struct {
	Environment    string       `json:"environment"`
	Timestamp      time.Time    `json:"timestamp"`
	Authentication CheckResult  `json:"authentication"`
	CaseStatusAPI  *CheckResult `json:"case_status_api,omitempty"`
}

// TestConnection authenticates and, in the sandbox, fetches the first
// well-known test receipt to prove the Case Status API is reachable.
// Production has no safe test receipt, so the check stops at the token.
func (c *Client) TestConnection(ctx context.Context) *ConnectionReport {
	report := &ConnectionReport{
		Environment: string(c.env),
		Timestamp:   time.Now().UTC(),
	}

	c.tokens.Invalidate()
	if _, err := c.tokens.Token(ctx); err != nil {
		report.Authentication = CheckResult{Success: false, Error: err.Error()}
		return report
	}
	report.Authentication = CheckResult{Success: true}

	if c.env != Sandbox {
		return report
	}

	receipt := SandboxTestReceipts[0]
	status, err := c.CaseStatus(ctx, receipt)
	if err != nil {
		report.CaseStatusAPI = &CheckResult{Success: false, TestReceipt: receipt, Error: err.Error()}
		return report
	}
	report.CaseStatusAPI = &CheckResult{
		Success:     true,
		TestReceipt: receipt,
		Detail:      status.FormType + ": " + status.StatusTextEN,
	}
	return report
}
