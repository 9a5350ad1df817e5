package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thejzagency/swfldines/app/models"
)

func TestApplyFilterByCityAndCuisine(t *testing.T) {
	in := []models.Restaurant{
		{Name: "Bayfront Bistro", City: "Naples", CuisineType: "Seafood"},
		{Name: "Taco Casa", City: "Fort Myers", CuisineType: "Mexican"},
		{Name: "Dockside", City: "naples", CuisineType: "Seafood"},
	}

	out := Apply(in, Filter{City: "Naples"})
	assert.Equal(t, 2, len(out))

	out = Apply(in, Filter{City: "Naples", Cuisine: "seafood"})
	assert.Equal(t, 2, len(out))

	out = Apply(in, Filter{Cuisine: "Mexican"})
	assert.Equal(t, []string{"Taco Casa"}, names(out))
}

func TestApplyFilterQueryMatchesNameCuisineDescription(t *testing.T) {
	in := []models.Restaurant{
		{Name: "Bayfront Bistro", Description: "waterfront dining"},
		{Name: "Taco Casa", CuisineType: "Mexican"},
	}

	assert.Equal(t, []string{"Bayfront Bistro"}, names(Apply(in, Filter{Query: "WATERFRONT"})))
	assert.Equal(t, []string{"Taco Casa"}, names(Apply(in, Filter{Query: "mexican"})))
	assert.Empty(t, Apply(in, Filter{Query: "steakhouse"}))
}

func TestApplyFilterFeaturesRequireAll(t *testing.T) {
	in := []models.Restaurant{
		{Name: "A", Features: models.StringList{"Outdoor Seating", "Live Music"}},
		{Name: "B", Features: models.StringList{"Outdoor Seating"}},
	}

	out := Apply(in, Filter{Features: []string{"Outdoor Seating", "Live Music"}})
	assert.Equal(t, []string{"A"}, names(out))
}

func TestApplyZeroFilterReturnsInput(t *testing.T) {
	in := []models.Restaurant{{Name: "A"}, {Name: "B"}}
	out := Apply(in, Filter{})
	assert.Equal(t, names(in), names(out))
}
