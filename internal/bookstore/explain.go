package bookstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Plan stages that tell how documents were located.
const (
	StageCollScan  = "COLLSCAN"
	StageIndexScan = "IXSCAN"
)

// ExplainSummary condenses the parts of an explain result worth printing.
type ExplainSummary struct {
	WinningStage        string // top stage of the winning plan, e.g. FETCH
	AccessStage         string // leaf stage, COLLSCAN or IXSCAN
	IndexName           string // set when AccessStage is an index scan
	Returned            int64
	KeysExamined        int64
	DocsExamined        int64
	ExecutionTimeMillis int64
}

// UsesIndex reports whether the winning plan read from an index.
func (s ExplainSummary) UsesIndex() bool {
	return s.IndexName != "" || s.AccessStage == StageIndexScan
}

// ExplainResult is the outcome of an executionStats explain.
type ExplainResult struct {
	Filter  bson.D
	Summary ExplainSummary
	Stats   bson.Raw // executionStats section as returned by the server
}

// Explain runs the find command for filter in executionStats mode and
// reports how the server executed it. Nothing is asserted on the plan.
func (s *Store) Explain(ctx context.Context, filter bson.D) (_ ExplainResult, err error) {
	defer observe("explain", time.Now(), &err)

	cmd := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: s.coll.Name()},
			{Key: "filter", Value: filter},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}

	raw, err := s.coll.Database().RunCommand(ctx, cmd).Raw()
	if err != nil {
		return ExplainResult{}, errors.Join(ErrExplain, err)
	}

	summary, err := SummarizeExplain(raw)
	if err != nil {
		return ExplainResult{}, errors.Join(ErrExplain, err)
	}

	res := ExplainResult{Filter: filter, Summary: summary}
	if stats, ok := raw.Lookup("executionStats").DocumentOK(); ok {
		res.Stats = stats
	}
	return res, nil
}

// SummarizeExplain extracts the winning plan and execution counters from
// a raw explain reply. Servers that use the slot based engine nest the
// classic plan under winningPlan.queryPlan; both shapes are accepted.
func SummarizeExplain(raw bson.Raw) (ExplainSummary, error) {
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return ExplainSummary{}, err
	}

	var sum ExplainSummary

	plan := lookup(doc, "queryPlanner", "winningPlan")
	if inner := lookup(plan, "queryPlan"); inner != nil {
		plan = inner
	}
	if plan != nil {
		sum.WinningStage = toString(lookup(plan, "stage"))
		leaf := plan
		for {
			next := lookup(leaf, "inputStage")
			if next == nil {
				next = first(lookup(leaf, "inputStages"))
			}
			if next == nil {
				break
			}
			leaf = next
		}
		sum.AccessStage = toString(lookup(leaf, "stage"))
		sum.IndexName = toString(lookup(leaf, "indexName"))
	}

	stats := lookup(doc, "executionStats")
	sum.Returned = toInt64(lookup(stats, "nReturned"))
	sum.KeysExamined = toInt64(lookup(stats, "totalKeysExamined"))
	sum.DocsExamined = toInt64(lookup(stats, "totalDocsExamined"))
	sum.ExecutionTimeMillis = toInt64(lookup(stats, "executionTimeMillis"))

	return sum, nil
}

// lookup walks nested documents regardless of whether the decoder
// produced bson.M or bson.D for them.
func lookup(v any, path ...string) any {
	for _, key := range path {
		switch doc := v.(type) {
		case bson.M:
			v = doc[key]
		case map[string]any:
			v = doc[key]
		case bson.D:
			v = nil
			for _, e := range doc {
				if e.Key == key {
					v = e.Value
					break
				}
			}
		default:
			return nil
		}
		if v == nil {
			return nil
		}
	}
	return v
}

func first(v any) any {
	switch arr := v.(type) {
	case bson.A:
		if len(arr) > 0 {
			return arr[0]
		}
	case []any:
		if len(arr) > 0 {
			return arr[0]
		}
	}
	return nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
