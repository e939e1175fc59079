package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		price    *float64
		min, max *float64
		want     bool
	}{
		{"inside", Float(6.99), Float(5), Float(10), true},
		{"lower bound inclusive", Float(5), Float(5), Float(10), true},
		{"upper bound inclusive", Float(10), Float(5), Float(10), true},
		{"below", Float(4.99), Float(5), Float(10), false},
		{"above", Float(11.99), Float(5), Float(10), false},
		{"nil price", nil, Float(5), Float(10), false},
		{"nil price open bounds", nil, nil, nil, false},
		{"open max", Float(500), Float(5), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InPriceRange(tt.price, tt.min, tt.max))
		})
	}
}

func TestFilterVeganPizza(t *testing.T) {
	type item struct {
		price        float64
		vegan, pizza bool
	}
	items := []item{
		{4.99, true, true},
		{6.99, true, true},
		{7.50, false, true},
		{8.00, true, false},
		{11.99, true, true},
	}

	var records []Record
	for i, it := range items {
		r := Record{Position: i + 1, Price: Float(it.price)}
		r.SetString("title", "item")
		r.SetFlag("vegan", it.vegan)
		r.SetFlag("pizza", it.pizza)
		records = append(records, r)
	}

	criteria := SearchCriteria{
		Query:    "vegan pizza",
		PriceMin: Float(5),
		PriceMax: Float(10),
		Require:  []string{"vegan", "pizza"},
	}
	got := Filter(records, criteria)

	require.Len(t, got, 1)
	assert.InDelta(t, 6.99, *got[0].Price, 1e-9)
	assert.Equal(t, 2, got[0].Position)
}

func TestFilterWithoutPriceBounds(t *testing.T) {
	records := []Record{{Position: 1}, {Position: 2, Price: Float(3)}}
	got := Filter(records, SearchCriteria{})
	assert.Len(t, got, 2, "records without a price pass when no bound is set")
}

func TestRecordFields(t *testing.T) {
	var r Record
	r.SetString("title", "Daiya Pizza")
	r.Set("rating", nil)
	r.SetString("title", "Daiya Vegan Pizza")

	assert.Equal(t, "Daiya Vegan Pizza", r.Title())
	_, ok := r.Get("rating")
	assert.False(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Len(t, r.Fields, 2)

	b, err := json.Marshal(r.Fields)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Daiya Vegan Pizza","rating":null}`, string(b))
}

func TestRunResultFail(t *testing.T) {
	res := RunResult{Success: true, Stage: StageNavigated}
	res.Fail(ErrNavigation)
	assert.False(t, res.Success)
	assert.Equal(t, StageFailed, res.Stage)
	assert.Equal(t, "navigation failed", res.Error)
}

func TestFieldsUnmarshalKeepsOrder(t *testing.T) {
	var rec Record
	rec.SetString("title", "Lucky Strike")
	rec.Set("phone", nil)
	rec.SetString("address", "6801 Hollywood Blvd")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec.Fields, got.Fields)
	_, ok := got.Get("phone")
	assert.False(t, ok)

	assert.Error(t, json.Unmarshal([]byte(`{"fields":["x"]}`), &got))
}
