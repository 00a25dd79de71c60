package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PrepareResponse is the success body of the prepare endpoint.
type PrepareResponse struct {
	RunID     string   `json:"run_id" validate:"required"`
	Merchants []string `json:"merchants"`
	Defaults  []string `json:"defaults"`
}

// AnalyzeRequest is the JSON body sent to the analyze endpoint.
type AnalyzeRequest struct {
	RunID     string   `json:"run_id" validate:"required"`
	Merchants []string `json:"merchants" validate:"min=1,dive,required"`
}

// AnalyzeResponse is the success body of the analyze endpoint.
type AnalyzeResponse struct {
	RunID     string     `json:"run_id,omitempty"`
	ReportMD  string     `json:"report_md"`
	Charts    *Charts    `json:"charts,omitempty"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

// ErrorBody is the optional body of a non-success response.
type ErrorBody struct {
	Error string `json:"error"`
}

type Charts struct {
	Heatmap            Heatmap            `json:"heatmap"`
	Period             Period             `json:"period"`
	AmountDistribution AmountDistribution `json:"amount_distribution"`
}

// Heatmap holds counts indexed as Matrix[weekday][hour].
type Heatmap struct {
	Matrix   [][]float64 `json:"matrix"`
	Hours    []Label     `json:"hours"`
	Weekdays []string    `json:"weekdays"`
}

type Period struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AmountDistribution is a histogram; Counts[i] covers [Edges[i], Edges[i+1]).
type AmountDistribution struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

type TimeRange struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Upload describes a local file chosen for the prepare phase.
type Upload struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest,omitempty"`
}

// Label is an axis label that may arrive as a JSON string or number.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("label must be a string or number: %w", err)
	}
	*l = Label(n.String())
	return nil
}
