// Package seed loads donor, recipient and hospital records into the table
// store and publishes the flight schedule to the object store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"organmatch/internal/logistics"
	"organmatch/internal/store"
)

type RecordWriter interface {
	Put(ctx context.Context, table, id string, rec store.Record) error
}

type ObjectWriter interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

var idKeys = map[string]string{
	store.Donors:     "donor_id",
	store.Recipients: "recipient_id",
	store.Hospitals:  "hospital_id",
}

// Records reads a JSON array of records and upserts each under its table's
// id attribute (or "id"). It stops at the first record it cannot store.
func Records(ctx context.Context, w RecordWriter, table string, r io.Reader) (int, error) {
	idKey, ok := idKeys[table]
	if !ok {
		return 0, fmt.Errorf("%w: %s", store.ErrUnknownTable, table)
	}
	var recs []store.Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", table, err)
	}
	for i, rec := range recs {
		id, ok := rec.String(idKey, "id")
		if !ok {
			return i, fmt.Errorf("%s record %d has no %s", table, i, idKey)
		}
		if err := w.Put(ctx, table, id, rec); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}

// Flights validates a JSON array of flight records and uploads it unchanged
// to bucket/key.
func Flights(ctx context.Context, w ObjectWriter, bucket, key string, r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read flights: %w", err)
	}
	var flights []logistics.Flight
	if err := json.Unmarshal(raw, &flights); err != nil {
		return 0, fmt.Errorf("decode flights: %w", err)
	}
	for i, f := range flights {
		if f.From == "" || f.To == "" {
			return 0, fmt.Errorf("flight record %d is missing from/to", i)
		}
	}
	if err := w.PutObject(ctx, bucket, key, raw, "application/json"); err != nil {
		return 0, fmt.Errorf("upload flights: %w", err)
	}
	return len(flights), nil
}
