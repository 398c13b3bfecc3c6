package inventory

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVHeader is the fixed column header of the CSV snapshot.
var CSVHeader = []string{
	"ctid", "hostname", "ip_address", "status", "memory_mb",
	"cpu_cores", "storage", "tags", "unprivileged", "last_updated",
}

// WriteJSON writes the snapshot as indented JSON, replacing any
// previous file.
func (s *Snapshot) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON snapshot: %w", err)
	}
	return nil
}

// WriteCSV writes the snapshot as CSV with the fixed header, replacing
// any previous file.
func (s *Snapshot) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range s.Containers {
		record := []string{
			strconv.Itoa(c.CTID),
			c.Hostname,
			c.IPAddress,
			c.Status,
			strconv.Itoa(c.MemoryMB),
			strconv.Itoa(c.CPUCores),
			c.Storage,
			c.Tags,
			strconv.FormatBool(c.Unprivileged),
			c.LastUpdated,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for %d: %w", c.CTID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV snapshot: %w", err)
	}
	return nil
}
