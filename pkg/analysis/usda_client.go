package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/internal/utils"
)

const defaultUSDABaseURL = "https://api.nal.usda.gov/fdc/v1"

type (
	usdaFoodNutrient struct {
		NutrientName string  `json:"nutrientName"`
		UnitName     string  `json:"unitName"`
		Value        float64 `json:"value"`
	}

	usdaFood struct {
		FdcID         int                `json:"fdcId"`
		Description   string             `json:"description"`
		FoodNutrients []usdaFoodNutrient `json:"foodNutrients"`
	}

	usdaSearchResponse struct {
		Foods []usdaFood `json:"foods"`
	}

	// USDAClient cross-references food names against FoodData Central.
	// Without an API key the client reports itself disabled and every
	// enrichment call is a pass-through.
	USDAClient struct {
		apiKey     string
		baseURL    string
		httpClient *http.Client
	}
)

func NewUSDAClient() *USDAClient {
	return &USDAClient{
		apiKey:     utils.GetConfig("USDA_API_KEY"),
		baseURL:    defaultUSDABaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (u *USDAClient) Enabled() bool {
	return u.apiKey != ""
}

// EnrichFoods overwrites AI macro estimates with database values where a
// confident match exists. Lookups run concurrently, one per item; output
// order always matches input order and a failed lookup only costs that item
// its enrichment.
func (u *USDAClient) EnrichFoods(ctx context.Context, foods []domain.FoodItem) []domain.FoodItem {
	if !u.Enabled() || len(foods) == 0 {
		return foods
	}

	enriched := make([]domain.FoodItem, len(foods))
	copy(enriched, foods)

	var wg sync.WaitGroup
	for i := range enriched {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			match, err := u.Lookup(ctx, enriched[idx].Name)
			if err != nil {
				log.Printf("USDA enrichment failed for %q: %v", enriched[idx].Name, err)
				return
			}
			if match == nil {
				return
			}

			if match.Calories != nil {
				enriched[idx].Calories = *match.Calories
			}
			if match.Protein != nil {
				enriched[idx].Protein = *match.Protein
			}
			if match.Carbs != nil {
				enriched[idx].Carbs = *match.Carbs
			}
			if match.Fats != nil {
				enriched[idx].Fats = *match.Fats
			}
		}(i)
	}
	wg.Wait()

	return enriched
}

// Lookup searches FoodData Central for the best match by name and extracts
// the four macro values from its nutrient breakdown. A nil match with nil
// error means the database had nothing useful.
func (u *USDAClient) Lookup(ctx context.Context, foodName string) (*domain.EnrichmentMatch, error) {
	query := strings.TrimSpace(foodName)
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf(
		"%s/foods/search?api_key=%s&query=%s&pageSize=1&dataType=%s&dataType=%s",
		u.baseURL,
		url.QueryEscape(u.apiKey),
		url.QueryEscape(query),
		url.QueryEscape("Survey (FNDDS)"),
		url.QueryEscape("SR Legacy"),
	)

	var searchResp usdaSearchResponse
	if err := u.getJSON(ctx, searchURL, &searchResp); err != nil {
		return nil, err
	}
	if len(searchResp.Foods) == 0 {
		return nil, nil
	}
	best := searchResp.Foods[0]

	detailURL := fmt.Sprintf("%s/food/%d?api_key=%s", u.baseURL, best.FdcID, url.QueryEscape(u.apiKey))

	var detail usdaFood
	if err := u.getJSON(ctx, detailURL, &detail); err != nil {
		return nil, err
	}

	calories := findNutrient(detail.FoodNutrients, "energy")
	protein := findNutrient(detail.FoodNutrients, "protein")
	carbs := findNutrient(detail.FoodNutrients, "carbohydrate, by difference", "carbohydrate")
	fats := findNutrient(detail.FoodNutrients, "total lipid (fat)", "fat")

	if calories == nil && protein == nil && carbs == nil && fats == nil {
		return nil, nil
	}

	return &domain.EnrichmentMatch{
		Name:     best.Description,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fats:     fats,
	}, nil
}

func (u *USDAClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("usda API error: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// findNutrient matches nutrient names case-insensitively against aliases,
// earlier aliases taking priority.
func findNutrient(nutrients []usdaFoodNutrient, aliases ...string) *float64 {
	for _, alias := range aliases {
		lowerAlias := strings.ToLower(alias)
		for _, n := range nutrients {
			if strings.Contains(strings.ToLower(n.NutrientName), lowerAlias) {
				value := n.Value
				return &value
			}
		}
	}
	return nil
}
