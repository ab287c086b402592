// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultPageSize applies when a caller passes no limit.
const DefaultPageSize = 50

// NewestFirst pages a collection ordered by field descending, ties broken by
// _id so pages never overlap. Page is 1-based; values below 1 mean page 1.
func NewestFirst(field string, limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
}
