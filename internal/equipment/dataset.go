package equipment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Source is anything that can answer an equipment status query. *Client serves it
// from the remote API and *Dataset from memory.
type Source interface {
	FetchEquipmentStatus(ctx context.Context, filters Filters) (*StatusResponse, error)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*Dataset)(nil)
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dataset is an immutable in-memory set of records.
type Dataset struct {
	records []Record
}

// NewDataset validates records and returns a Dataset holding a private copy.
func NewDataset(records []Record) (*Dataset, error) {
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("record %d (id %d): %w", i, r.EquipmentID, err)
		}
		if _, dup := seen[r.EquipmentID]; dup {
			return nil, fmt.Errorf("record %d: duplicate equipment id %d", i, r.EquipmentID)
		}
		seen[r.EquipmentID] = struct{}{}
	}
	return &Dataset{records: cloneRecords(records)}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of all records in their original order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return cloneRecords(d.records)
}

// Filter returns the records matching every set filter, in original order.
// Status and type match exactly, location is a case-insensitive substring match,
// and a positive Limit keeps the first Limit matches.
func (d *Dataset) Filter(filters Filters) []Record {
	if d == nil {
		return nil
	}
	status := strings.TrimSpace(filters.Status)
	kind := strings.TrimSpace(filters.EquipmentType)
	location := strings.ToLower(strings.TrimSpace(filters.Location))

	out := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if status != "" && string(r.Status) != status {
			continue
		}
		if kind != "" && r.EquipmentType != kind {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(r.Location), location) {
			continue
		}
		r.LastMaintenanceDate = cloneDate(r.LastMaintenanceDate)
		r.NextMaintenanceDate = cloneDate(r.NextMaintenanceDate)
		out = append(out, r)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out
}

// FetchEquipmentStatus answers a query the same way the remote endpoint does:
// filtered records plus statistics computed over them.
func (d *Dataset) FetchEquipmentStatus(ctx context.Context, filters Filters) (*StatusResponse, error) {
	if d == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := d.Filter(filters)
	stats := Summarize(data)
	return &StatusResponse{
		Data:           data,
		Statistics:     &stats,
		Status:         "success",
		Count:          len(data),
		FiltersApplied: filters,
	}, nil
}

// Types returns the distinct equipment types of the dataset in first-seen order.
func (d *Dataset) Types() []string {
	if d == nil {
		return nil
	}
	return DistinctTypes(d.records)
}

// Locations returns the distinct locations of the dataset, sorted.
func (d *Dataset) Locations() []string {
	if d == nil {
		return nil
	}
	return Locations(d.records)
}

// DistinctTypes returns the distinct equipment types of records in first-seen order.
func DistinctTypes(records []Record) []string {
	return distinct(records, func(r Record) string { return r.EquipmentType })
}

// Locations returns the distinct locations of records sorted lexically.
func Locations(records []Record) []string {
	locations := distinct(records, func(r Record) string { return r.Location })
	sort.Strings(locations)
	return locations
}

func distinct(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func cloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	for i := range dup {
		dup[i].LastMaintenanceDate = cloneDate(dup[i].LastMaintenanceDate)
		dup[i].NextMaintenanceDate = cloneDate(dup[i].NextMaintenanceDate)
	}
	return dup
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
