package claim

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// The original browser-storage deployment persisted claims as loose JSON and
// changed shape between revisions without migrating old records. Everything
// below reads any historical shape and upgrades it, in memory, to the current
// schema. Upgrades are pure: the stored record is only rewritten on the next
// save.

// flexNumber accepts a JSON number or a numeric string. The legacy records
// kept every quantity as free text; anything non-numeric counts as zero.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexNumber(v)
	return nil
}

// recordV1 is the legacy claim shape: positional projects carrying an
// employee-entered unit amount, and status flags as Chinese display strings.
type recordV1 struct {
	EmpID         string      `json:"empId"`
	Name          string      `json:"name"`
	Month         string      `json:"month"`
	LegalWorkdays flexNumber  `json:"legalWorkdays"`
	TotalWorkdays flexNumber  `json:"totalWorkdays"`
	RemoteHours   flexNumber  `json:"remoteHours"`
	TravelDays    flexNumber  `json:"travelDays"`
	Projects      []projectV1 `json:"projects"`
	Status        string      `json:"status"`
}

type projectV1 struct {
	Name   string     `json:"name"`
	Amount flexNumber `json:"amount"`
	Count  flexNumber `json:"count"`
	Note   string     `json:"note"`
}

const (
	legacyStatusDraft     = "未提交"
	legacyStatusSubmitted = "已提交"
	legacyStatusConfirmed = "已确认"
)

// DecodeApplication parses a stored claim record of any known schema version
// and returns it upgraded to the current one.
func DecodeApplication(raw []byte) (*SalaryApplication, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	if probe.SchemaVersion >= CurrentSchemaVersion {
		var app SalaryApplication
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, err
		}
		return &app, nil
	}

	// Version 0/1: the untagged browser-storage shape.
	var legacy recordV1
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	return upgradeV1(legacy), nil
}

// upgradeV1 lifts a legacy record into the current schema. Line items gain
// stable IDs; the employee-entered unit amounts are dropped because pricing
// is approver-owned now, so upgraded items price at the system default until
// the approver sets them.
func upgradeV1(legacy recordV1) *SalaryApplication {
	items := make([]LineItem, 0, len(legacy.Projects))
	for _, p := range legacy.Projects {
		items = append(items, LineItem{
			ID:       uuid.New(),
			Label:    p.Name,
			Quantity: float64(p.Count),
			Note:     p.Note,
		})
	}

	return &SalaryApplication{
		SchemaVersion:  CurrentSchemaVersion,
		EmployeeNumber: legacy.EmpID,
		EmployeeName:   legacy.Name,
		Period:         legacy.Month,
		LegalWorkdays:  float64(legacy.LegalWorkdays),
		ActualWorkdays: float64(legacy.TotalWorkdays),
		RemoteHours:    float64(legacy.RemoteHours),
		TravelDays:     float64(legacy.TravelDays),
		LineItems:      items,
		Status:         upgradeV1Status(legacy.Status),
	}
}

func upgradeV1Status(s string) string {
	switch s {
	case legacyStatusSubmitted:
		return StatusSubmitted
	case legacyStatusConfirmed:
		return StatusConfirmed
	case legacyStatusDraft:
		return StatusDraft
	default:
		return StatusDraft
	}
}
