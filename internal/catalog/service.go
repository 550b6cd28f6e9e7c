// Package catalog serves the donor, recipient, hospital and city listings.
package catalog

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"organmatch/internal/store"
)

const listLimit = 5

// TableScanner reads the first page of a table.
type TableScanner interface {
	Scan(ctx context.Context, table string) ([]store.Record, error)
}

type Service struct {
	tables TableScanner
}

func NewService(tables TableScanner) *Service {
	return &Service{tables: tables}
}

func (s *Service) scan(ctx context.Context, table string) ([]store.Record, error) {
	if s.tables == nil {
		return nil, store.ErrStoreUnavailable
	}
	return s.tables.Scan(ctx, table)
}

func (s *Service) Organs(ctx context.Context) ([]Organ, error) {
	recs, err := s.scan(ctx, store.Donors)
	if err != nil {
		return nil, err
	}
	out := make([]Organ, 0, listLimit)
	for _, d := range first(recs) {
		out = append(out, Organ{
			ID:             d.StringOr("N/A", "donor_id", "id"),
			Type:           d.StringOr("Unknown", "organ_type", "type"),
			BloodType:      d.StringOr("Unknown", "blood_type"),
			Age:            int(d.FloatOr(0, "age")),
			ConditionScore: d.FloatOr(0, "organ_condition_score", "condition_score"),
			Location:       d.StringOr("Unknown", "hospital_id", "location"),
		})
	}
	return out, nil
}

func (s *Service) Recipients(ctx context.Context) ([]Recipient, error) {
	recs, err := s.scan(ctx, store.Recipients)
	if err != nil {
		return nil, err
	}
	out := make([]Recipient, 0, listLimit)
	for _, r := range first(recs) {
		out = append(out, Recipient{
			ID:        r.StringOr("N/A", "recipient_id", "id"),
			Name:      r.StringOr("Unknown", "name"),
			BloodType: r.StringOr("Unknown", "blood_type"),
			Age:       int(r.FloatOr(0, "age")),
			Urgency:   r.StringOr("Medium", "urgency_level"),
			WaitTime:  r.StringOr("0", "wait_time_days") + " days",
			Hospital:  r.StringOr("Unknown", "hospital_id", "hospital"),
			Condition: r.StringOr("N/A", "medical_condition_score"),
		})
	}
	return out, nil
}

func (s *Service) Hospitals(ctx context.Context) ([]store.Record, error) {
	recs, err := s.scan(ctx, store.Hospitals)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []store.Record{}
	}
	return recs, nil
}

// Cities lists the distinct hospital cities, title-cased and sorted.
func (s *Service) Cities(ctx context.Context) ([]string, error) {
	recs, err := s.scan(ctx, store.Hospitals)
	if err != nil {
		return nil, err
	}
	caser := cases.Title(language.English)
	seen := map[string]bool{}
	cities := []string{}
	for _, h := range recs {
		city, ok := h.String("city")
		if !ok {
			continue
		}
		city = caser.String(strings.TrimSpace(city))
		if city == "" || seen[city] {
			continue
		}
		seen[city] = true
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities, nil
}

func first(recs []store.Record) []store.Record {
	if len(recs) > listLimit {
		return recs[:listLimit]
	}
	return recs
}
