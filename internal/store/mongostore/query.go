package mongostore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mockprep/platform/internal/store"
)

// domain field names are stored verbatim as document keys
var fields = map[string]bool{
	store.FieldUserID:      true,
	store.FieldAssignedTo:  true,
	store.FieldFinalized:   true,
	store.FieldInterviewID: true,
	store.FieldCreatedAt:   true,
	store.FieldEmail:       true,
}

// translateQuery converts q into a filter document and find options.
func translateQuery(q store.Query) (bson.D, *options.FindOptions, error) {
	filter := bson.D{}
	for _, f := range q.Filters {
		if !fields[f.Field] {
			return nil, nil, fmt.Errorf("unknown query field %q", f.Field)
		}
		switch f.Op {
		case store.OpEq:
			filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
		case store.OpNotEq:
			filter = append(filter, bson.E{Key: f.Field, Value: bson.D{{Key: "$ne", Value: f.Value}}})
		default:
			return nil, nil, fmt.Errorf("unsupported query operator %q", f.Op)
		}
	}

	opts := options.Find()
	if q.OrderBy != "" {
		if !fields[q.OrderBy] {
			return nil, nil, fmt.Errorf("unknown order field %q", q.OrderBy)
		}
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return filter, opts, nil
}
