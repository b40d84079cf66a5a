package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/internal/utils"
)

type (
	// GeneratorService talks to the external menu-generation service
	// (SkinChef). The service decides meal contents and shopping-list deltas;
	// this client only transports them. Non-2xx responses and timeouts are
	// surfaced as domain.ErrGenerationFailed and never retried here.
	GeneratorService interface {
		Generate(ctx context.Context, constraints domain.GeneratorConstraints) (*domain.GeneratedMenu, error)
		Swap(ctx context.Context, currentMeal interface{}, preferences domain.SwapPreferences) (*domain.SwappedMeal, error)
		GetRecipe(ctx context.Context, mealName string) (*domain.RecipeDetail, error)
	}

	generatorService struct {
		baseURL string
		http    *http.Client
	}
)

const requestTimeout = 30 * time.Second

func NewGeneratorService() GeneratorService {
	return &generatorService{
		baseURL: utils.GetConfig("SKINCHEF_URL"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// NewGeneratorServiceWithURL is used by tests to point the client at a fake
// server.
func NewGeneratorServiceWithURL(baseURL string) GeneratorService {
	return &generatorService{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (s *generatorService) Generate(ctx context.Context, constraints domain.GeneratorConstraints) (*domain.GeneratedMenu, error) {
	var menu domain.GeneratedMenu
	if err := s.post(ctx, "/api/generate", constraints, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (s *generatorService) Swap(ctx context.Context, currentMeal interface{}, preferences domain.SwapPreferences) (*domain.SwappedMeal, error) {
	payload := map[string]interface{}{
		"currentMeal": currentMeal,
		"preferences": preferences,
	}

	var swapped domain.SwappedMeal
	if err := s.post(ctx, "/api/swap", payload, &swapped); err != nil {
		return nil, err
	}
	if swapped.Meal == nil {
		return nil, domain.ErrGenerationFailed
	}
	return &swapped, nil
}

func (s *generatorService) GetRecipe(ctx context.Context, mealName string) (*domain.RecipeDetail, error) {
	endpoint := fmt.Sprintf("%s/api/recipe?name=%s", s.baseURL, url.QueryEscape(mealName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, domain.ErrGenerationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, domain.ErrGenerationFailed
	}

	var recipe domain.RecipeDetail
	if err := json.NewDecoder(resp.Body).Decode(&recipe); err != nil {
		return nil, domain.ErrGenerationFailed
	}
	return &recipe, nil
}

func (s *generatorService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return domain.ErrGenerationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return domain.ErrGenerationFailed
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.ErrGenerationFailed
	}
	return nil
}
