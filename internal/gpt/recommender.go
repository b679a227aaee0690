package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Compile-time interface check.
var _ domain.RecommendationEngine = (*Recommender)(nil)

// Chatter is the part of Client the recommender needs.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ErrBadRecipe is returned when the model's reply is not a usable recipe.
var ErrBadRecipe = errors.New("gpt: model returned an unusable recipe")

// maxCalories is the largest per-serving calorie count accepted from the model.
const maxCalories = 10000

// Recommender generates recipes with a chat model.
type Recommender struct {
	client Chatter
	log    *logger.Logger
}

// NewRecommender creates a recommender backed by client.
func NewRecommender(client Chatter, log *logger.Logger) *Recommender {
	return &Recommender{client: client, log: log}
}

// recipeResponse is the JSON the model returns for PromptRecommend.
type recipeResponse struct {
	Name        string              `json:"name"`
	Cuisine     string              `json:"cuisine"`
	PrepTime    string              `json:"prepTime"`
	Calories    json.Number         `json:"calories"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	HealthTags  []string            `json:"healthTags"`
	Description string              `json:"description"`
}

// Recommend asks the model for one recipe suited to prefs. Every call
// yields a recipe with a fresh "ai-" id that is not a favorite.
func (r *Recommender) Recommend(ctx context.Context, prefs domain.UserPreferences) (*domain.Recipe, error) {
	messages := []Message{
		TextMessage(RoleSystem, PromptRecommend),
		TextMessage(RoleUser, profileBlock(prefs)),
		TextMessage(RoleUser, "Suggest a recipe for me."),
	}
	raw, err := r.client.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	// Strip markdown code fences if the model wraps the JSON (common).
	raw = stripCodeFence(raw)

	var resp recipeResponse
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		r.log.Error("gpt: failed to parse recipe JSON: %v\nraw: %s", err, truncate(raw, 400))
		return nil, fmt.Errorf("%w: %v", ErrBadRecipe, err)
	}

	recipe, err := resp.toRecipe()
	if err != nil {
		return nil, err
	}
	r.log.Debug("gpt: recommended %q (%s, %d kcal)", recipe.Name, recipe.Cuisine, recipe.Calories)
	return recipe, nil
}

func (resp recipeResponse) toRecipe() (*domain.Recipe, error) {
	name := strings.TrimSpace(resp.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrBadRecipe)
	}

	var ingredients []domain.Ingredient
	for _, ing := range resp.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		ing.Quantity = strings.TrimSpace(ing.Quantity)
		ingredients = append(ingredients, ing)
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredients", ErrBadRecipe)
	}

	cuisine, ok := domain.CuisineFromString(resp.Cuisine)
	if !ok {
		cuisine = domain.CuisineFusion
	}

	calories := 0
	if resp.Calories != "" {
		f, err := resp.Calories.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: calories %q", ErrBadRecipe, resp.Calories)
		}
		if f < 0 || f > maxCalories {
			return nil, fmt.Errorf("%w: calories %s out of range", ErrBadRecipe, resp.Calories)
		}
		calories = int(f + 0.5)
	}

	return &domain.Recipe{
		ID:          "ai-" + uuid.NewString(),
		Name:        name,
		Cuisine:     cuisine,
		PrepTime:    strings.TrimSpace(resp.PrepTime),
		Calories:    calories,
		Ingredients: ingredients,
		Steps:       resp.Steps,
		HealthTags:  resp.HealthTags,
		Description: strings.TrimSpace(resp.Description),
	}, nil
}

// profileBlock serialises the preferences into the plain-text block the
// prompt refers to.
func profileBlock(p domain.UserPreferences) string {
	var b strings.Builder
	b.WriteString("[User Profile]\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Diet: %s\n", p.DietaryPreference)
	fmt.Fprintf(&b, "Allergies: %s\n", listOrNone(p.Allergies))
	fmt.Fprintf(&b, "Deficiencies: %s\n", listOrNone(p.Deficiencies))
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
