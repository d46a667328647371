package sim

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

// RecordColumns is the CSV header written by WriteRecords.
// Column order and presence are part of the output contract.
var RecordColumns = []string{
	"service_start", "service_end", "arrival_time", "schedule_time",
	"service_time", "exec_time", "priority", "status",
}

// WriteRecords encodes records as CSV with a header row.
// An unset schedule_time is written as an empty field.
func WriteRecords(w io.Writer, records []TaskRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(RecordColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range records {
		scheduleTime := ""
		if r.ScheduleTime != nil {
			scheduleTime = strconv.FormatInt(*r.ScheduleTime, 10)
		}
		row := []string{
			strconv.FormatInt(r.ServiceStart, 10),
			strconv.FormatInt(r.ServiceEnd, 10),
			strconv.FormatInt(r.ArrivalTime, 10),
			scheduleTime,
			strconv.FormatInt(r.ServiceTime, 10),
			strconv.FormatInt(r.ExecTime, 10),
			r.Priority,
			r.Status,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadRecords parses CSV produced by WriteRecords.
func ReadRecords(r io.Reader) ([]TaskRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(RecordColumns)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reading CSV: missing header row")
	}
	for i, col := range RecordColumns {
		if rows[0][i] != col {
			return nil, fmt.Errorf("reading CSV: column %d is %q, want %q", i, rows[0][i], col)
		}
	}
	records := make([]TaskRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecordRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecordRow(row []string) (TaskRecord, error) {
	var rec TaskRecord
	ints := []struct {
		name string
		idx  int
		dst  *int64
	}{
		{"service_start", 0, &rec.ServiceStart},
		{"service_end", 1, &rec.ServiceEnd},
		{"arrival_time", 2, &rec.ArrivalTime},
		{"service_time", 4, &rec.ServiceTime},
		{"exec_time", 5, &rec.ExecTime},
	}
	for _, f := range ints {
		v, err := strconv.ParseInt(row[f.idx], 10, 64)
		if err != nil {
			return rec, fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = v
	}
	if row[3] != "" {
		v, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return rec, fmt.Errorf("parsing schedule_time: %w", err)
		}
		rec.ScheduleTime = &v
	}
	rec.Priority = row[6]
	rec.Status = row[7]
	return rec, nil
}

// SaveRecords writes records as CSV to URL through fs (local path, mem://, or any afs scheme).
func SaveRecords(ctx context.Context, fs afs.Service, URL string, records []TaskRecord) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return err
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("uploading records to %s: %w", URL, err)
	}
	return nil
}

// LoadRecords reads CSV records from URL through fs.
func LoadRecords(ctx context.Context, fs afs.Service, URL string) ([]TaskRecord, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("downloading records from %s: %w", URL, err)
	}
	return ReadRecords(bytes.NewReader(data))
}

// RunHeader captures the metadata of one simulation run, stored as YAML beside the records.
type RunHeader struct {
	RunID      string `yaml:"run_id"`
	CreatedAt  string `yaml:"created_at,omitempty"`
	Seed       int64  `yaml:"seed"`
	Ticks      int64  `yaml:"ticks"`
	Dispatcher string `yaml:"dispatcher"`
	Config     Config `yaml:"config"`
	Completed  int    `yaml:"completed"`
	Resident   int    `yaml:"resident"` // tasks still in admission, a level, or the running slot
}

// SaveRunHeader writes header as YAML to URL through fs.
func SaveRunHeader(ctx context.Context, fs afs.Service, URL string, header *RunHeader) error {
	data, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling run header: %w", err)
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("uploading run header to %s: %w", URL, err)
	}
	return nil
}

// LoadRunHeader reads a YAML run header from URL through fs.
func LoadRunHeader(ctx context.Context, fs afs.Service, URL string) (*RunHeader, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("downloading run header from %s: %w", URL, err)
	}
	var header RunHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parsing run header: %w", err)
	}
	return &header, nil
}
