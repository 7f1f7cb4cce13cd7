package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/VenusCh001/studytracker/core"
)

func TestToBSON(t *testing.T) {
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter core.Filter
		want   bson.D
	}{
		{"empty", core.Filter{}, bson.D{}},
		{
			name:   "owner and id",
			filter: core.OwnedBy("u1").ByID("t1"),
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "userId", Value: "u1"}},
				bson.D{{Key: "_id", Value: "t1"}},
			}}},
		},
		{
			name: "operators",
			filter: core.Filter{}.
				Where("status", core.OpNe, "completed").
				Where("tags", core.OpHasAny, []string{"go"}).
				Where("date", core.OpGte, day),
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "status", Value: bson.D{{Key: "$ne", Value: "completed"}}}},
				bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: []string{"go"}}}}},
				bson.D{{Key: "date", Value: bson.D{{Key: "$gte", Value: day}}}},
			}}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := toBSON(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := toBSON(core.Filter{}.Where("status", core.OpIn, "pending"))
	assert.Error(t, err)
	_, err = toBSON(core.Filter{}.Where("status", core.Op("regex"), "p"))
	assert.Error(t, err)
}

func TestToSort(t *testing.T) {
	got := toSort([]core.DBOrdering{{Field: "dueDate", Ascending: true}, {Field: "id"}})
	assert.Equal(t, bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: -1}}, got)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "x"))
	assert.True(t, core.IsNotFound(translate(mongo.ErrNoDocuments, "x")))
	assert.True(t, core.IsUnavailable(translate(mongo.ErrClientDisconnected, "x")))

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, core.IsConflict(translate(dup, "x")))
}
