package model

import "time"

// RawLocation mirrors a location document as stored in the source collection.
// Documents are schemaless, so the numeric and temporal fields are decoded
// into interface values and only given a type by normalize.ToRecord.
type RawLocation struct {
	UserID   any `bson:"UserId"`
	Latitude any `bson:"Lattitude"`
	// LatitudeAlt picks up documents written with the corrected field name.
	LatitudeAlt   any `bson:"Latitude,omitempty"`
	Longitude     any `bson:"Longitude"`
	Address       any `bson:"Address"`
	Type          any `bson:"Type"`
	DateTime      any `bson:"DateTime"`
	Code          any `bson:"Code"`
	InstallmentNo any `bson:"Installmentno"`
}

// Record is the typed, DB-ready representation of one location point.
// Coordinates are kept as text so they round-trip without float formatting.
type Record struct {
	UserID            string
	Latitude          string
	Longitude         string
	Address           string
	Type              string
	Timestamp         time.Time
	Code              string
	InstallmentNumber int32
}

// DocRef identifies a source document for deletion.
type DocRef struct {
	Collection string
	// ID is the printable form of the document id, used in logs.
	ID string
	// Key is the store-native id value.
	Key any
}

// SourceDocument pairs an extracted document with its ref.
type SourceDocument struct {
	Ref DocRef
	Raw RawLocation
}

// LocationColumns returns the ordered column names for location.tbl_location inserts.
func LocationColumns() []string {
	return []string{
		"user_id",
		"latitude",
		"longitude",
		"address",
		"type",
		"date_time",
		"code",
		"installment_no",
	}
}

// InsertValues returns the record values in the same order as LocationColumns().
// Empty text fields are bound as NULL.
func (r *Record) InsertValues() []any {
	return []any{
		nilIfEmpty(r.UserID),
		nilIfEmpty(r.Latitude),
		nilIfEmpty(r.Longitude),
		nilIfEmpty(r.Address),
		nilIfEmpty(r.Type),
		r.Timestamp,
		nilIfEmpty(r.Code),
		r.InstallmentNumber,
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
