package driver

import (
	"encoding/json"
	"fmt"

	"github.com/manpen/pace26checker/internal/diag"
	"github.com/manpen/pace26checker/internal/observ"
	"github.com/manpen/pace26checker/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an info entry whose only note is the JSON
// payload. Info entries never change the outcome.
func appendTimingDiagnostic(v *diag.Verdict, payload timingPayload) {
	if payload.Kind == "" {
		payload.Kind = "check"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	v.Diagnostics = append(v.Diagnostics, diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Notes: []diag.Note{
			{Span: source.Span{}, Msg: string(data)},
		},
	})
}
