package equipment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Status is the operating state of a piece of equipment.
type Status string

const (
	StatusActive      Status = "Active"
	StatusMaintenance Status = "Maintenance"
	StatusInactive    Status = "Inactive"
)

// Statuses returns the complete status domain in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusMaintenance, StatusInactive}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// Label returns the on-site display label for the status.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "稼働中"
	case StatusMaintenance:
		return "メンテナンス中"
	case StatusInactive:
		return "停止中"
	default:
		return string(s)
	}
}

// Known equipment types. The list is informational; records may carry other types.
const (
	TypeMotor      = "Motor"
	TypeRobot      = "Robot"
	TypeCompressor = "Compressor"
	TypeInspection = "Inspection"
	TypePackaging  = "Packaging"
	TypePress      = "Press"
	TypeCNC        = "CNC"
	TypeConveyor   = "Conveyor"
	TypeCooling    = "Cooling"
	TypeElectrical = "Electrical"
)

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return Date{t}, nil
}

// String formats the date, or returns an empty string for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD, RFC3339 timestamps, empty strings and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		*d = Date{t}
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", raw, err)
	}
	*d = Date{t.UTC().Truncate(24 * time.Hour)}
	return nil
}

// Record describes one physical asset and its latest sensor readings.
type Record struct {
	EquipmentID           int     `json:"equipmentId" validate:"required,gt=0"`
	EquipmentName         string  `json:"equipmentName" validate:"required"`
	EquipmentType         string  `json:"equipmentType" validate:"required"`
	SerialNumber          string  `json:"serialNumber"`
	Manufacturer          string  `json:"manufacturer"`
	Model                 string  `json:"model"`
	Location              string  `json:"location" validate:"required"`
	InstallationDate      Date    `json:"installationDate"`
	MaintenanceCycleHours int     `json:"maintenanceCycleHours" validate:"gt=0"`
	ResponsiblePerson     string  `json:"responsiblePerson"`
	Status                Status  `json:"status" validate:"required,oneof=Active Maintenance Inactive"`
	CurrentTemperature    float64 `json:"currentTemperature"`
	CurrentVibration      float64 `json:"currentVibration"`
	OperatingHours        int     `json:"operatingHours" validate:"gte=0"`
	Efficiency            float64 `json:"efficiency" validate:"gte=0,lte=100"`
	LastMaintenanceDate   *Date   `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate   *Date   `json:"nextMaintenanceDate,omitempty"`
}

// MaintenanceDue reports whether the asset is in maintenance or has run past its
// maintenance cycle.
func (r Record) MaintenanceDue() bool {
	if r.Status == StatusMaintenance {
		return true
	}
	if r.OperatingHours > 0 && r.MaintenanceCycleHours > 0 {
		return r.OperatingHours >= r.MaintenanceCycleHours
	}
	return false
}

// Filters narrows an equipment status query. Zero values impose no constraint.
type Filters struct {
	Status        string `json:"status,omitempty" toml:"status"`
	EquipmentType string `json:"equipmentType,omitempty" toml:"equipment_type"`
	Location      string `json:"location,omitempty" toml:"location"`
	Limit         int    `json:"limit,omitempty" toml:"-"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return strings.TrimSpace(f.Status) == "" &&
		strings.TrimSpace(f.EquipmentType) == "" &&
		strings.TrimSpace(f.Location) == "" &&
		f.Limit <= 0
}

// Statistics summarizes a set of records.
type Statistics struct {
	TotalEquipment       int      `json:"totalEquipment"`
	ActiveEquipment      int      `json:"activeEquipment"`
	MaintenanceEquipment int      `json:"maintenanceEquipment"`
	InactiveEquipment    int      `json:"inactiveEquipment"`
	AvgEfficiency        *float64 `json:"averageEfficiency"`
	TotalOperatingHours  int      `json:"totalOperatingHours"`
}

// AverageEfficiency returns the mean efficiency of Active records. ok is false when
// there were no Active records.
func (s Statistics) AverageEfficiency() (avg float64, ok bool) {
	if s.AvgEfficiency == nil {
		return 0, false
	}
	return *s.AvgEfficiency, true
}

// StatusResponse mirrors the payload returned by /v1/equipment-status.
type StatusResponse struct {
	Data       []Record    `json:"data"`
	Statistics *Statistics `json:"statistics,omitempty"`

	Status         string  `json:"status,omitempty"`
	Timestamp      string  `json:"timestamp,omitempty"`
	Count          int     `json:"count,omitempty"`
	FiltersApplied Filters `json:"filters_applied,omitzero"`
}

// HealthPayload is the opaque body returned by the health endpoint.
type HealthPayload = json.RawMessage
