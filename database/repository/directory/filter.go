package directoryRepo

import (
	"regexp"
	"strings"

	"mindnest/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// textFields are matched case-insensitively against the search term.
var textFields = []string{"name", "title", "bio", "specializations"}

// BuildSearchFilter translates a term and filter into one MongoDB query.
// Specialization membership is an exact $in, so it follows the stored casing.
func BuildSearchFilter(term string, filter models.DirectoryFilter) bson.M {
	var clauses bson.A

	if term = strings.TrimSpace(term); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		var or bson.A
		for _, field := range textFields {
			or = append(or, bson.M{field: pattern})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	if len(filter.Specializations) > 0 {
		clauses = append(clauses, bson.M{"specializations": bson.M{"$in": filter.Specializations}})
	}

	if len(filter.PriceRange) > 0 {
		var or bson.A
		for _, bucket := range filter.PriceRange {
			if clause := priceClause(bucket); clause != nil {
				or = append(or, clause)
			}
		}
		if len(or) > 0 {
			clauses = append(clauses, bson.M{"$or": or})
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}

func priceClause(bucket models.PriceBucket) bson.M {
	switch bucket {
	case models.PriceUnder500:
		return bson.M{"price": bson.M{"$lt": models.PriceLowThreshold}}
	case models.Price500To1000:
		return bson.M{"price": bson.M{"$gte": models.PriceLowThreshold, "$lte": models.PriceHighThreshold}}
	case models.PriceAbove1000:
		return bson.M{"price": bson.M{"$gt": models.PriceHighThreshold}}
	default:
		return nil
	}
}
