package normalize

import (
	"time"

	"github.com/gyeh/locsync/internal/model"
)

// ToSnapshotRow stringifies a source document for a Parquet snapshot.
// Values that cannot be rendered are left null.
func ToSnapshotRow(doc *model.SourceDocument, extractedAt time.Time) model.SnapshotRow {
	lat := latitudeValue(&doc.Raw)
	return model.SnapshotRow{
		DocumentID:    doc.Ref.ID,
		Collection:    doc.Ref.Collection,
		UserID:        optText(doc.Raw.UserID),
		Latitude:      optText(lat),
		Longitude:     optText(doc.Raw.Longitude),
		Address:       optText(doc.Raw.Address),
		Type:          optText(doc.Raw.Type),
		DateTime:      optText(doc.Raw.DateTime),
		Code:          optText(doc.Raw.Code),
		InstallmentNo: optText(doc.Raw.InstallmentNo),
		ExtractedAt:   extractedAt,
	}
}

// FromSnapshotRow rebuilds a source document from a snapshot row. The ref
// carries no store key, so restored documents cannot be purged.
func FromSnapshotRow(row *model.SnapshotRow) model.SourceDocument {
	return model.SourceDocument{
		Ref: model.DocRef{Collection: row.Collection, ID: row.DocumentID},
		Raw: model.RawLocation{
			UserID:        anyStr(row.UserID),
			Latitude:      anyStr(row.Latitude),
			Longitude:     anyStr(row.Longitude),
			Address:       anyStr(row.Address),
			Type:          anyStr(row.Type),
			DateTime:      anyStr(row.DateTime),
			Code:          anyStr(row.Code),
			InstallmentNo: anyStr(row.InstallmentNo),
		},
	}
}

func optText(v any) *string {
	if v == nil {
		return nil
	}
	s, err := Text(v)
	if err != nil {
		return nil
	}
	return &s
}

func anyStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
