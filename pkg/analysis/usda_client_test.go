package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NutriSnap-Backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUSDA serves a search and detail endpoint keyed by food name. Names in
// failFor get a 500 on search to exercise the fail-soft path.
type fakeUSDA struct {
	nutrients map[string][]usdaFoodNutrient
	failFor   map[string]bool
}

func (f *fakeUSDA) server() *httptest.Server {
	ids := make(map[int]string)
	nextID := 1000
	nameToID := make(map[string]int)
	for name := range f.nutrients {
		nameToID[name] = nextID
		ids[nextID] = name
		nextID++
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/foods/search"):
			query := r.URL.Query().Get("query")
			if f.failFor[query] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			id, ok := nameToID[query]
			if !ok {
				json.NewEncoder(w).Encode(usdaSearchResponse{})
				return
			}
			json.NewEncoder(w).Encode(usdaSearchResponse{Foods: []usdaFood{
				{FdcID: id, Description: strings.ToUpper(query)},
			}})
		case strings.HasPrefix(r.URL.Path, "/food/"):
			var id int
			fmt.Sscanf(r.URL.Path, "/food/%d", &id)
			name := ids[id]
			json.NewEncoder(w).Encode(usdaFood{
				FdcID:         id,
				Description:   strings.ToUpper(name),
				FoodNutrients: f.nutrients[name],
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestUSDAClient(serverURL string) *USDAClient {
	return &USDAClient{
		apiKey:     "test-key",
		baseURL:    serverURL,
		httpClient: http.DefaultClient,
	}
}

func fullNutrients(calories, protein, carbs, fats float64) []usdaFoodNutrient {
	return []usdaFoodNutrient{
		{NutrientName: "Energy", UnitName: "KCAL", Value: calories},
		{NutrientName: "Protein", UnitName: "G", Value: protein},
		{NutrientName: "Carbohydrate, by difference", UnitName: "G", Value: carbs},
		{NutrientName: "Total lipid (fat)", UnitName: "G", Value: fats},
	}
}

func TestEnrichFoodsDisabledIsNoOp(t *testing.T) {
	client := &USDAClient{httpClient: http.DefaultClient}

	foods := []domain.FoodItem{
		{Name: "Apple", Quantity: "1 medium", Calories: 95, Protein: 0.5, Carbs: 25.1, Fats: 0.3},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	assert.Equal(t, foods, enriched)
}

func TestEnrichFoodsOverwritesMatchedMacros(t *testing.T) {
	fake := &fakeUSDA{nutrients: map[string][]usdaFoodNutrient{
		"Apple": fullNutrients(52, 0.3, 13.8, 0.2),
	}}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "Apple", Quantity: "1 medium", Calories: 95, Protein: 0.5, Carbs: 25.1, Fats: 0.3},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Apple", enriched[0].Name) // name never changes
	assert.Equal(t, "1 medium", enriched[0].Quantity)
	assert.Equal(t, 52.0, enriched[0].Calories)
	assert.Equal(t, 0.3, enriched[0].Protein)
	assert.Equal(t, 13.8, enriched[0].Carbs)
	assert.Equal(t, 0.2, enriched[0].Fats)
}

func TestEnrichFoodsPartialMatchKeepsAIValues(t *testing.T) {
	fake := &fakeUSDA{nutrients: map[string][]usdaFoodNutrient{
		"Tea": {
			{NutrientName: "Energy", UnitName: "KCAL", Value: 2},
		},
	}}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "Tea", Quantity: "1 cup", Calories: 5, Protein: 0.1, Carbs: 0.7, Fats: 0},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	require.Len(t, enriched, 1)
	assert.Equal(t, 2.0, enriched[0].Calories)
	assert.Equal(t, 0.1, enriched[0].Protein) // no opinion, AI estimate stands
	assert.Equal(t, 0.7, enriched[0].Carbs)
}

func TestEnrichFoodsNoUsefulNutrientsIsNoMatch(t *testing.T) {
	fake := &fakeUSDA{nutrients: map[string][]usdaFoodNutrient{
		"Salt": {
			{NutrientName: "Sodium, Na", UnitName: "MG", Value: 38758},
		},
	}}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "Salt", Quantity: "1 pinch", Calories: 0, Protein: 0, Carbs: 0, Fats: 0},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	assert.Equal(t, foods, enriched)
}

func TestEnrichFoodsIsolatesFailures(t *testing.T) {
	fake := &fakeUSDA{
		nutrients: map[string][]usdaFoodNutrient{
			"Rice": fullNutrients(130, 2.7, 28.2, 0.3),
			"Egg":  fullNutrients(155, 13, 1.1, 11),
		},
		failFor: map[string]bool{"Mystery": true},
	}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "Rice", Quantity: "1 cup", Calories: 205, Protein: 4.3, Carbs: 44.5, Fats: 0.4},
		{Name: "Mystery", Quantity: "1 piece", Calories: 100, Protein: 1, Carbs: 10, Fats: 2},
		{Name: "Egg", Quantity: "1 large", Calories: 78, Protein: 6.3, Carbs: 0.6, Fats: 5.3},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	require.Len(t, enriched, 3)

	// Output order matches input order regardless of completion order.
	assert.Equal(t, "Rice", enriched[0].Name)
	assert.Equal(t, "Mystery", enriched[1].Name)
	assert.Equal(t, "Egg", enriched[2].Name)

	assert.Equal(t, 130.0, enriched[0].Calories)
	assert.Equal(t, foods[1], enriched[1]) // failed lookup passes through
	assert.Equal(t, 155.0, enriched[2].Calories)
}

func TestEnrichFoodsIdempotent(t *testing.T) {
	fake := &fakeUSDA{nutrients: map[string][]usdaFoodNutrient{
		"Apple": fullNutrients(52, 0.3, 13.8, 0.2),
	}}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "Apple", Quantity: "1 medium", Calories: 95, Protein: 0.5, Carbs: 25.1, Fats: 0.3},
	}

	once := client.EnrichFoods(context.Background(), foods)
	twice := client.EnrichFoods(context.Background(), once)
	assert.Equal(t, once, twice)
}

func TestEnrichFoodsSkipsBlankNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no lookup expected for blank names")
	}))
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	foods := []domain.FoodItem{
		{Name: "   ", Quantity: "1", Calories: 10, Protein: 1, Carbs: 1, Fats: 1},
	}

	enriched := client.EnrichFoods(context.Background(), foods)
	assert.Equal(t, foods, enriched)
}

func TestLookupAliasPriority(t *testing.T) {
	fake := &fakeUSDA{nutrients: map[string][]usdaFoodNutrient{
		"Bread": {
			{NutrientName: "Carbohydrate, other", UnitName: "G", Value: 99},
			{NutrientName: "Carbohydrate, by difference", UnitName: "G", Value: 49.2},
			{NutrientName: "Fatty acids, total saturated", UnitName: "G", Value: 0.7},
			{NutrientName: "Total lipid (fat)", UnitName: "G", Value: 3.3},
		},
	}}
	srv := fake.server()
	defer srv.Close()

	client := newTestUSDAClient(srv.URL)
	match, err := client.Lookup(context.Background(), "Bread")
	require.NoError(t, err)
	require.NotNil(t, match)

	// "carbohydrate, by difference" beats the generic alias.
	require.NotNil(t, match.Carbs)
	assert.Equal(t, 49.2, *match.Carbs)
	// "total lipid (fat)" beats plain "fat".
	require.NotNil(t, match.Fats)
	assert.Equal(t, 3.3, *match.Fats)
	assert.Nil(t, match.Calories)
	assert.Nil(t, match.Protein)
	assert.Equal(t, "BREAD", match.Name)
}
