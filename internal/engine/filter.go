package engine

import (
	"reflect"
	"strings"

	"salesboard/internal/models"
)

// FilterByRange keeps records inside the optional date and time-of-day
// bounds. An empty bound means no constraint on that side. Comparisons are
// lexicographic, which matches chronological order for ISO dates
// (YYYY-MM-DD) and zero-padded 24-hour times (HH:MM).
func FilterByRange(records []models.SaleRecord, dateFrom, dateTo, timeFrom, timeTo string) []models.SaleRecord {
	out := make([]models.SaleRecord, 0, len(records))
	for _, r := range records {
		if dateFrom != "" && r.Date < dateFrom {
			continue
		}
		if dateTo != "" && r.Date > dateTo {
			continue
		}
		if timeFrom != "" && r.Time < timeFrom {
			continue
		}
		if timeTo != "" && r.Time > timeTo {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DeriveColumns reads the projectable field names from the shape of the
// first record, excluding id. Field discovery deliberately depends on sample
// data rather than a fixed schema, so an empty collection yields no columns,
// and an optional field the first record does not carry is not a column.
func DeriveColumns(records []models.SaleRecord) []string {
	cols := []string{}
	if len(records) == 0 {
		return cols
	}
	v := reflect.ValueOf(records[0])
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, optional := jsonName(t.Field(i))
		if name == "" || name == "id" {
			continue
		}
		if optional && v.Field(i).IsZero() {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

// Project returns only the fields whose visibility flag is true, keyed by
// their JSON names. The record id is never included, regardless of the map,
// and an unset optional field is omitted rather than emitted empty.
func Project(record models.SaleRecord, visibility models.Visibility) map[string]any {
	out := map[string]any{}
	v := reflect.ValueOf(record)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, optional := jsonName(t.Field(i))
		if name == "" || name == "id" || !visibility[name] {
			continue
		}
		if optional && v.Field(i).IsZero() {
			continue
		}
		out[name] = v.Field(i).Interface()
	}
	return out
}

// jsonName returns the field's JSON name and whether the tag marks it
// omitempty, which is how the record type expresses optional fields.
func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	return name, strings.Contains(opts, "omitempty")
}
