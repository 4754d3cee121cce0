package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/typely/typely/internal/snippet"
)

// portRecord is the interchange shape for import and export: the
// portable parts of a snippet, without IDs, timestamps or counters.
type portRecord struct {
	Trigger     string   `json:"trigger"`
	Replacement string   `json:"replacement"`
	Kind        string   `json:"kind,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ImportResult reports what an import did.
type ImportResult struct {
	Imported int
	Updated  int
	Skipped  int
	Errors   []string
}

// ExportJSON writes the snippets matching q to w as a JSON array and
// returns how many were written.
func (s *Store) ExportJSON(w io.Writer, q snippet.Query) (int, error) {
	snips, err := s.List(q)
	if err != nil {
		return 0, err
	}

	records := make([]portRecord, 0, len(snips))
	for _, sn := range snips {
		rec := portRecord{
			Trigger:     sn.Trigger,
			Replacement: sn.Replacement,
			Tags:        sn.Tags,
		}
		if sn.Kind != snippet.KindText {
			rec.Kind = string(sn.Kind)
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(records), nil
}

// ImportJSON reads a JSON array of snippets from r and stores them.
// An existing trigger is skipped, or its replacement and tags updated
// when overwrite is set. Invalid records are collected, not fatal.
func (s *Store) ImportJSON(r io.Reader, overwrite bool) (ImportResult, error) {
	var records []portRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return ImportResult{}, fmt.Errorf("decode import: %w", err)
	}

	var res ImportResult
	for _, rec := range records {
		if err := s.importOne(rec, overwrite, &res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", rec.Trigger, err))
		}
	}
	return res, nil
}

func (s *Store) importOne(rec portRecord, overwrite bool, res *ImportResult) error {
	existing, err := s.GetByTrigger(rec.Trigger)
	switch {
	case err == nil:
		if !overwrite {
			res.Skipped++
			return nil
		}
		if err := existing.UpdateReplacement(rec.Replacement); err != nil {
			return err
		}
		existing.Tags = rec.Tags
		if err := s.Update(existing); err != nil {
			return err
		}
		res.Updated++
		return nil

	case errors.Is(err, snippet.ErrNotFound):
		kind := snippet.KindText
		if rec.Kind != "" {
			kind = snippet.Kind(rec.Kind)
		}
		sn, err := snippet.NewKind(rec.Trigger, rec.Replacement, kind)
		if err != nil {
			return err
		}
		sn.Tags = rec.Tags
		if err := s.Create(sn); err != nil {
			return err
		}
		res.Imported++
		return nil

	default:
		return err
	}
}
