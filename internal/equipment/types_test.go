package equipment

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"calendar date", `"2024-04-15"`, "2024-04-15"},
		{"rfc3339", `"2024-04-15T10:30:00Z"`, "2024-04-15"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Fatalf("String() = %q, want %q", d.String(), tt.want)
			}
		})
	}

	if err := json.Unmarshal([]byte(`"15/04/2024"`), new(Date)); err == nil {
		t.Fatalf("Unmarshal of non-ISO date returned nil error")
	}
	if err := json.Unmarshal([]byte(`20240415`), new(Date)); err == nil {
		t.Fatalf("Unmarshal of number returned nil error")
	}

	out, err := json.Marshal(NewDate(2023, time.January, 15))
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != `"2023-01-15"` {
		t.Fatalf("Marshal = %s, want \"2023-01-15\"", out)
	}
	if out, _ := json.Marshal(Date{}); string(out) != "null" {
		t.Fatalf("Marshal(zero) = %s, want null", out)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-06-26 ")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.June || d.Day() != 26 {
		t.Fatalf("ParseDate = %v, want 2024-06-26", d)
	}
	if _, err := ParseDate("June 26"); err == nil {
		t.Fatalf("ParseDate(June 26) returned nil error")
	}
}

func TestRecord_JSONUsesCamelCaseKeys(t *testing.T) {
	next := NewDate(2024, time.April, 15)
	rec := Record{
		EquipmentID:           1,
		EquipmentName:         "motor",
		EquipmentType:         TypeMotor,
		Location:              "A",
		MaintenanceCycleHours: 720,
		Status:                StatusActive,
		Efficiency:            95.2,
		NextMaintenanceDate:   &next,
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	body := string(out)
	for _, key := range []string{`"equipmentId":1`, `"maintenanceCycleHours":720`, `"nextMaintenanceDate":"2024-04-15"`, `"installationDate":null`} {
		if !strings.Contains(body, key) {
			t.Fatalf("Marshal = %s, want it to contain %s", body, key)
		}
	}
	if strings.Contains(body, "lastMaintenanceDate") {
		t.Fatalf("Marshal = %s, want lastMaintenanceDate omitted", body)
	}
}

func TestStatistics_AverageSerializesAsNull(t *testing.T) {
	out, err := json.Marshal(Statistics{TotalEquipment: 1, MaintenanceEquipment: 1})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if !strings.Contains(string(out), `"averageEfficiency":null`) {
		t.Fatalf("Marshal = %s, want averageEfficiency null", out)
	}

	var decoded Statistics
	if err := json.Unmarshal([]byte(`{"totalEquipment":2,"activeEquipment":1,"averageEfficiency":88.5}`), &decoded); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if avg, ok := decoded.AverageEfficiency(); !ok || avg != 88.5 {
		t.Fatalf("average = %v (ok=%v), want 88.5", avg, ok)
	}
}

func TestStatus_DomainAndLabels(t *testing.T) {
	statuses := Statuses()
	if len(statuses) != 3 || statuses[0] != StatusActive || statuses[1] != StatusMaintenance || statuses[2] != StatusInactive {
		t.Fatalf("Statuses = %v, want [Active Maintenance Inactive]", statuses)
	}
	for _, s := range statuses {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
		if s.Label() == string(s) {
			t.Fatalf("Label(%q) should be a display label", s)
		}
	}
	if Status("Broken").Valid() {
		t.Fatalf("Broken should not be valid")
	}
	if Status("Broken").Label() != "Broken" {
		t.Fatalf("unknown status label should fall back to the raw value")
	}
	if StatusMaintenance.Label() != "メンテナンス中" {
		t.Fatalf("Label(Maintenance) = %q", StatusMaintenance.Label())
	}
}

func TestRecord_MaintenanceDue(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"in maintenance", Record{Status: StatusMaintenance}, true},
		{"past cycle", Record{Status: StatusActive, OperatingHours: 1456, MaintenanceCycleHours: 720}, true},
		{"within cycle", Record{Status: StatusActive, OperatingHours: 654, MaintenanceCycleHours: 4320}, false},
		{"no readings", Record{Status: StatusInactive}, false},
	}
	for _, tt := range tests {
		if got := tt.rec.MaintenanceDue(); got != tt.want {
			t.Fatalf("%s: MaintenanceDue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilters_IsZero(t *testing.T) {
	if !(Filters{}).IsZero() {
		t.Fatalf("empty filters should be zero")
	}
	if !(Filters{Status: "  ", Limit: -1}).IsZero() {
		t.Fatalf("whitespace and negative limit should be zero")
	}
	if (Filters{Location: "第1工場"}).IsZero() {
		t.Fatalf("location filter should not be zero")
	}
	if (Filters{Limit: 3}).IsZero() {
		t.Fatalf("limit should not be zero")
	}
}
