package model

import "time"

// SnapshotRow mirrors the Parquet schema of an extraction snapshot.
// Raw values are stringified so a snapshot can be re-coerced on restore.
type SnapshotRow struct {
	DocumentID    string    `parquet:"document_id"`
	Collection    string    `parquet:"collection"`
	UserID        *string   `parquet:"user_id,optional"`
	Latitude      *string   `parquet:"latitude,optional"`
	Longitude     *string   `parquet:"longitude,optional"`
	Address       *string   `parquet:"address,optional"`
	Type          *string   `parquet:"type,optional"`
	DateTime      *string   `parquet:"date_time,optional"`
	Code          *string   `parquet:"code,optional"`
	InstallmentNo *string   `parquet:"installment_no,optional"`
	ExtractedAt   time.Time `parquet:"extracted_at"`
}

// SnapshotColumns lists the columns a snapshot file must carry to be restorable.
func SnapshotColumns() []string {
	return []string{"document_id", "latitude", "longitude", "date_time", "installment_no"}
}
