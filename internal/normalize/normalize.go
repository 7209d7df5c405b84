package normalize

import (
	"fmt"

	"github.com/gyeh/locsync/internal/model"
)

// FieldError reports which document field failed coercion.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ToRecord converts a raw location document into a typed Record.
// It performs no I/O.
func ToRecord(raw *model.RawLocation) (*model.Record, error) {
	latitude, err := Coordinate(latitudeValue(raw))
	if err != nil {
		return nil, &FieldError{Field: "Lattitude", Err: err}
	}
	longitude, err := Coordinate(raw.Longitude)
	if err != nil {
		return nil, &FieldError{Field: "Longitude", Err: err}
	}
	ts, err := ParseTimestamp(raw.DateTime)
	if err != nil {
		return nil, &FieldError{Field: "DateTime", Err: err}
	}
	installment, err := Installment(raw.InstallmentNo)
	if err != nil {
		return nil, &FieldError{Field: "Installmentno", Err: err}
	}

	r := &model.Record{
		Latitude:          latitude,
		Longitude:         longitude,
		Timestamp:         ts,
		InstallmentNumber: installment,
	}
	texts := []struct {
		name string
		src  any
		dst  *string
	}{
		{"UserId", raw.UserID, &r.UserID},
		{"Address", raw.Address, &r.Address},
		{"Type", raw.Type, &r.Type},
		{"Code", raw.Code, &r.Code},
	}
	for _, f := range texts {
		s, err := Text(f.src)
		if err != nil {
			return nil, &FieldError{Field: f.name, Err: err}
		}
		*f.dst = s
	}
	return r, nil
}

// latitudeValue prefers the historical Lattitude field and falls back to
// Latitude when it is missing or renders empty.
func latitudeValue(raw *model.RawLocation) any {
	if s, err := Text(raw.Latitude); err == nil && s == "" && raw.LatitudeAlt != nil {
		return raw.LatitudeAlt
	}
	return raw.Latitude
}

// RecordError reports a coercion failure for one document in a batch.
type RecordError struct {
	Index      int
	DocumentID string
	Err        error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("document %s (#%d): %s", e.DocumentID, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ToRecords coerces every document in order and stops at the first failure.
func ToRecords(docs []model.SourceDocument) ([]model.Record, error) {
	out := make([]model.Record, 0, len(docs))
	for i := range docs {
		r, err := ToRecord(&docs[i].Raw)
		if err != nil {
			return nil, &RecordError{Index: i, DocumentID: docs[i].Ref.ID, Err: err}
		}
		out = append(out, *r)
	}
	return out, nil
}

// Validate coerces every document and returns all failures instead of
// stopping at the first. Used by dry runs.
func Validate(docs []model.SourceDocument) (valid int, rejected []*RecordError) {
	for i := range docs {
		if _, err := ToRecord(&docs[i].Raw); err != nil {
			rejected = append(rejected, &RecordError{Index: i, DocumentID: docs[i].Ref.ID, Err: err})
			continue
		}
		valid++
	}
	return valid, rejected
}
