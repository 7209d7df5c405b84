package transfer

import (
	"context"

	"github.com/gyeh/locsync/internal/normalize"
)

// PlanResult reports what a run would do for one unit.
type PlanResult struct {
	Unit       string
	Collection string
	Documents  int
	Valid      int
	Rejected   []*normalize.RecordError
	Err        error
}

// Plan extracts every unit and checks coercion without writing to any
// destination or deleting anything.
func (o *Orchestrator) Plan(ctx context.Context) []PlanResult {
	results := make([]PlanResult, 0, len(o.units))
	for _, u := range o.units {
		pr := PlanResult{Unit: u.Name, Collection: u.Collection}
		docs, err := o.extractor.Extract(ctx, u.Collection)
		if err != nil {
			pr.Err = err
			results = append(results, pr)
			continue
		}
		pr.Documents = len(docs)
		pr.Valid, pr.Rejected = normalize.Validate(docs)
		results = append(results, pr)
	}
	return results
}
