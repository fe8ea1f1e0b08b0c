// Package importer streams catalog CSV files through the normalizer and
// upserts the resulting medicines. An import is a one-shot batch job with
// at-least-once semantics: a crash mid-run leaves partially upserted data
// that the next run repairs, because upserts key on officialName.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/medisearch/backend/internal/domain"
	"github.com/medisearch/backend/internal/normalize"
)

// Stats is the final tally of one import run.
type Stats struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
}

// Importer runs CSV imports against a medicine store.
type Importer struct {
	store domain.MedicineStore
}

// New creates an importer writing to store.
func New(store domain.MedicineStore) *Importer {
	return &Importer{store: store}
}

// Run streams the CSV at path row by row through the normalizer and
// upserts every accepted medicine. Rejected rows are counted and logged,
// never fatal; a store error aborts the run with the stats so far.
func (im *Importer) Run(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	return im.runFrom(ctx, f)
}

func (im *Importer) runFrom(ctx context.Context, r io.Reader) (Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Stats{}, fmt.Errorf("reading csv header: %w", err)
	}
	cols := mapColumns(header)

	var stats Stats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading csv row %d: %w", stats.Total+1, err)
		}
		stats.Total++

		med, rejection := normalize.Normalize(cols.rawRow(record))
		if rejection != nil {
			stats.Rejected++
			log.Printf("[IMPORT] row %d rejected: %s", stats.Total, rejection.Reason)
			continue
		}

		if err := im.store.Upsert(ctx, med); err != nil {
			return stats, fmt.Errorf("upserting row %d: %w", stats.Total, err)
		}
		stats.Imported++

		if stats.Imported%10000 == 0 {
			log.Printf("[IMPORT] %d rows imported", stats.Imported)
		}
	}

	log.Printf("[IMPORT] done: %d imported, %d rejected of %d rows",
		stats.Imported, stats.Rejected, stats.Total)
	return stats, nil
}

// RunDetached runs an import outside any request context, logging the
// outcome under the given job id. Callers launch it in its own goroutine
// and never hear back; the job id only ties the log lines together.
func (im *Importer) RunDetached(jobID, path string) {
	stats, err := im.Run(context.Background(), path)
	if err != nil {
		log.Printf("[IMPORT %s] failed after %d rows: %v", jobID, stats.Total, err)
		return
	}
	log.Printf("[IMPORT %s] finished: %d imported, %d rejected", jobID, stats.Imported, stats.Rejected)
}

// columnMap resolves the source CSV's header aliases to RawRow fields.
type columnMap struct {
	indexes map[string]int
}

func mapColumns(header []string) columnMap {
	m := columnMap{indexes: make(map[string]int, len(header))}
	for i, name := range header {
		m.indexes[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return m
}

func (m columnMap) get(record []string, aliases ...string) string {
	for _, alias := range aliases {
		if i, ok := m.indexes[alias]; ok && i < len(record) {
			if v := strings.TrimSpace(record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (m columnMap) rawRow(record []string) normalize.RawRow {
	return normalize.RawRow{
		ID:            m.get(record, "id"),
		Name:          m.get(record, "name"),
		MedicineName:  m.get(record, "medicine_name"),
		BrandName:     m.get(record, "brand_name"),
		Price:         m.get(record, "price(₹)", "price"),
		Manufacturer:  m.get(record, "manufacturer_name", "manufacturer"),
		Type:          m.get(record, "type", "system"),
		Category:      m.get(record, "category"),
		DosageForm:    m.get(record, "dosageform", "dosage_form"),
		PackSizeLabel: m.get(record, "pack_size_label"),
		Composition1:  m.get(record, "short_composition1", "composition"),
		Composition2:  m.get(record, "short_composition2"),
		Discontinued:  m.get(record, "is_discontinued", "discontinued"),
	}
}
