package doctor_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpbridge/internal/doctor"
	"github.com/thoreinstein/mcpbridge/internal/doctor/mocks"
)

func checkReturning(t *testing.T, status doctor.Severity) *mocks.MockCheck {
	t.Helper()
	check := mocks.NewMockCheck(t)
	check.EXPECT().Run().Return(&doctor.CheckResult{Name: status.String(), Status: status}).Once()
	return check
}

func TestRunner_Run(t *testing.T) {
	r := doctor.NewRunner(
		checkReturning(t, doctor.SeverityPass),
		checkReturning(t, doctor.SeverityInfo),
	)
	r.AddCheck(checkReturning(t, doctor.SeverityWarning))
	r.AddCheck(checkReturning(t, doctor.SeverityError))
	r.AddCheck(checkReturning(t, doctor.SeverityPass))

	report := r.Run()
	require.Len(t, report.Results, 5)
	assert.Equal(t, "pass", report.Results[0].Name, "results keep registration order")
	assert.Equal(t, "error", report.Results[3].Name)
	assert.Equal(t, doctor.Summary{Passed: 2, Info: 1, Warnings: 1, Errors: 1}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.False(t, report.Timestamp.IsZero())
}

func TestRunner_Empty(t *testing.T) {
	report := doctor.NewRunner().Run()
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestRunner_FixSkipsPlainChecks(t *testing.T) {
	r := doctor.NewRunner(checkReturning(t, doctor.SeverityWarning))
	r.Run()
	assert.Empty(t, r.Fix())
}

func TestReport_JSON(t *testing.T) {
	report := doctor.NewRunner(checkReturning(t, doctor.SeverityWarning)).Run()

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded struct {
		Results []struct {
			Status string `json:"status"`
		} `json:"results"`
		Summary doctor.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "warning", decoded.Results[0].Status)
	assert.Equal(t, 1, decoded.Summary.Warnings)
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    doctor.Severity
		want string
	}{
		{doctor.SeverityPass, "pass"},
		{doctor.SeverityInfo, "info"},
		{doctor.SeverityWarning, "warning"},
		{doctor.SeverityError, "error"},
		{doctor.Severity(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}
