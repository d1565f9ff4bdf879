package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/KrishChai1/uscis-console/internal/render"
	"github.com/KrishChai1/uscis-console/internal/uscis"
)

// pageData carries the fields every page shows (sidebar token status and
// traffic stats) plus page-specific values under Result/Error.
type pageData struct {
	Title        string
	Token        uscis.TokenStatus
	Stats        TrafficStats
	Summarizer   bool
	TestReceipts []string

	Receipt    string
	Number     string
	StatusCode int
	RawBody    string
	Summary    string
	Error      string

	Report  *uscis.ConnectionReport
	Entries []ActivityEntry
}

func (s *Server) newPageData(title string) pageData {
	return pageData{
		Title:        title,
		Token:        s.uscis.Tokens().Status(),
		Stats:        s.activity.Stats(),
		Summarizer:   s.summarizer.Enabled(),
		TestReceipts: uscis.SandboxTestReceipts,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data pageData) {
	if err := s.templates.Execute(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("Template rendering failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) homePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "home.html", s.newPageData("Dashboard"))
}

func (s *Server) caseStatusPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("Case Status")

	if r.Method == http.MethodGet {
		s.renderPage(w, "case_status.html", data)
		return
	}

	receipt := strings.TrimSpace(r.FormValue("receipt"))
	data.Receipt = receipt
	if receipt == "" {
		data.Error = "Enter a receipt number."
		s.renderPage(w, "case_status.html", data)
		return
	}

	resp, err := s.uscis.Call(r.Context(), uscis.OpCaseStatus, map[string]string{"receipt": receipt}, nil)
	if err != nil {
		s.activity.Record("Case status: "+receipt, authStatus(err), err.Error())
		data.Error = err.Error()
		s.renderPage(w, "case_status.html", data)
		return
	}
	s.activity.Record("Case status: "+receipt, resp.StatusCode, "")

	data.Token = s.uscis.Tokens().Status()
	data.Stats = s.activity.Stats()
	data.StatusCode = resp.StatusCode
	data.RawBody = render.PrettyJSON(string(resp.Body))

	if resp.OK() && r.FormValue("summarize") == "on" {
		summary, err := s.summarizer.Summarize(r.Context(), "case status for "+receipt, string(resp.Body))
		if err != nil {
			data.Error = err.Error()
		} else {
			data.Summary = summary
		}
	}
	s.renderPage(w, "case_status.html", data)
}

func (s *Server) foiaPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "foia.html", s.newPageData("FOIA"))
}

func (s *Server) foiaCreateSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("FOIA")

	input := uscis.FOIARequestInput{
		FirstName:      strings.TrimSpace(r.FormValue("first_name")),
		LastName:       strings.TrimSpace(r.FormValue("last_name")),
		DateOfBirth:    apiDate(strings.TrimSpace(r.FormValue("date_of_birth"))),
		CountryOfBirth: strings.TrimSpace(r.FormValue("country_of_birth")),
		AlienNumber:    strings.TrimSpace(r.FormValue("alien_number")),
		RequesterEmail: strings.TrimSpace(r.FormValue("requester_email")),
		RequestType:    strings.TrimSpace(r.FormValue("request_type")),
	}

	created, err := s.uscis.CreateFOIARequest(r.Context(), input)
	if err != nil {
		s.recordHelperError("FOIA request", err)
		data.Error = err.Error()
		s.renderPage(w, "foia.html", data)
		return
	}
	s.activity.Record("FOIA request: "+created.RequestNumber, http.StatusOK, "")

	data.Token = s.uscis.Tokens().Status()
	data.Stats = s.activity.Stats()
	data.Number = created.RequestNumber
	data.StatusCode = http.StatusOK
	data.RawBody = render.PrettyJSON(string(created.Raw))
	s.renderPage(w, "foia.html", data)
}

func (s *Server) foiaStatusSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("FOIA")

	number := strings.TrimSpace(r.FormValue("number"))
	data.Number = number
	if number == "" {
		data.Error = "Enter a FOIA request number."
		s.renderPage(w, "foia.html", data)
		return
	}

	status, err := s.uscis.FOIAStatus(r.Context(), number)
	if err != nil {
		s.recordHelperError("FOIA status: "+number, err)
		data.Error = err.Error()
		s.renderPage(w, "foia.html", data)
		return
	}
	s.activity.Record("FOIA status: "+number, http.StatusOK, "")

	data.Token = s.uscis.Tokens().Status()
	data.Stats = s.activity.Stats()
	data.StatusCode = http.StatusOK
	data.RawBody = render.PrettyJSON(string(status.Raw))
	s.renderPage(w, "foia.html", data)
}

func (s *Server) connectionPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("Connection Test")

	if r.URL.Query().Get("run") == "1" {
		data.Report = s.uscis.TestConnection(r.Context())
		if data.Report.Authentication.Success {
			s.activity.Record("Connection test", http.StatusOK, "")
		} else {
			s.activity.Record("Connection test", 0, data.Report.Authentication.Error)
		}
		data.Token = s.uscis.Tokens().Status()
		data.Stats = s.activity.Stats()
	}
	s.renderPage(w, "connection.html", data)
}

func (s *Server) logsPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("Activity Log")
	data.Entries = s.activity.Entries()
	s.renderPage(w, "logs.html", data)
}

// apiDate converts the YYYY-MM-DD value a date input submits into the
// MM-DD-YYYY format the FOIA API expects. Anything that does not parse is
// passed through unchanged for the API to reject.
func apiDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("01-02-2006")
}

// recordHelperError logs a typed-helper failure with the upstream status
// when one exists.
func (s *Server) recordHelperError(action string, err error) {
	var apiErr *uscis.APIError
	if errors.As(err, &apiErr) {
		s.activity.Record(action, apiErr.Status, err.Error())
		return
	}
	s.activity.Record(action, authStatus(err), err.Error())
}
