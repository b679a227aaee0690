// Package catalog provides the static recipe catalog: the built-in seed
// recipes plus loaders for YAML catalogs on disk or in object storage.
package catalog

import "github.com/hammamikhairi/nutriveda/internal/domain"

// Default returns the built-in seed catalog in display order. Every call
// returns a fresh copy with IsFavorite cleared.
func Default() []domain.Recipe {
	return []domain.Recipe{
		palakPaneer(),
		masalaDosa(),
		macherJhol(),
		dhokla(),
	}
}

func palakPaneer() domain.Recipe {
	return domain.Recipe{
		ID:       "1",
		Name:     "Palak Paneer",
		Image:    "https://images.unsplash.com/photo-1589647363585-f4a7d3877b10?q=80&w=1000&auto=format&fit=crop",
		Cuisine:  domain.CuisineNorth,
		PrepTime: "40 mins",
		Calories: 320,
		Ingredients: []domain.Ingredient{
			{Name: "Spinach", Quantity: "500g"},
			{Name: "Paneer", Quantity: "200g"},
			{Name: "Garlic", Quantity: "4 cloves"},
			{Name: "Ginger", Quantity: "1 inch"},
			{Name: "Cream", Quantity: "2 tbsp"},
		},
		Steps: []string{
			"Blanch spinach and blend into a paste.",
			"Sauté garlic and ginger in ghee.",
			"Add spices and spinach puree.",
			"Simmer and add paneer cubes.",
			"Finish with fresh cream.",
		},
		HealthTags:  []string{"High Iron", "Calcium Rich", "Keto Friendly"},
		Description: "A creamy and nutritious spinach curry with cottage cheese.",
	}
}

func masalaDosa() domain.Recipe {
	return domain.Recipe{
		ID:       "2",
		Name:     "Masala Dosa",
		Image:    "https://images.unsplash.com/photo-1589301760014-d929f3979dbc?q=80&w=1000&auto=format&fit=crop",
		Cuisine:  domain.CuisineSouth,
		PrepTime: "20 mins (plus fermentation)",
		Calories: 180,
		Ingredients: []domain.Ingredient{
			{Name: "Rice Batter", Quantity: "2 cups"},
			{Name: "Potatoes", Quantity: "3 boiled"},
			{Name: "Onions", Quantity: "1 large"},
			{Name: "Mustard Seeds", Quantity: "1 tsp"},
		},
		Steps: []string{
			"Prepare potato masala with spices and onions.",
			"Spread batter on a hot griddle.",
			"Add ghee and crisp up the dosa.",
			"Stuff with masala and roll.",
		},
		HealthTags:  []string{"Probiotic", "Gluten Free", "Energy Boosting"},
		Description: "Crispy fermented crepe stuffed with spiced potatoes.",
	}
}

func macherJhol() domain.Recipe {
	return domain.Recipe{
		ID:       "3",
		Name:     "Macher Jhol",
		Image:    "https://images.unsplash.com/photo-1626132647523-66f5bf380027?q=80&w=1000&auto=format&fit=crop",
		Cuisine:  domain.CuisineEast,
		PrepTime: "45 mins",
		Calories: 250,
		Ingredients: []domain.Ingredient{
			{Name: "Fish Fillet (Rohu)", Quantity: "4 pcs"},
			{Name: "Potatoes", Quantity: "2"},
			{Name: "Tomato", Quantity: "1"},
			{Name: "Mustard Oil", Quantity: "2 tbsp"},
		},
		Steps: []string{
			"Marinate fish with turmeric and salt.",
			"Fry fish lightly and set aside.",
			"Prepare curry base with spices and potatoes.",
			"Simmer fish in the curry until cooked.",
		},
		HealthTags:  []string{"High Protein", "Omega-3", "Heart Healthy"},
		Description: "A traditional Bengali fish curry rich in flavors.",
	}
}

func dhokla() domain.Recipe {
	return domain.Recipe{
		ID:       "4",
		Name:     "Dhokla",
		Image:    "https://images.unsplash.com/photo-1601050690597-df0568f70950?q=80&w=1000&auto=format&fit=crop",
		Cuisine:  domain.CuisineWest,
		PrepTime: "25 mins",
		Calories: 150,
		Ingredients: []domain.Ingredient{
			{Name: "Gram Flour", Quantity: "1 cup"},
			{Name: "Yogurt", Quantity: "1/2 cup"},
			{Name: "Green Chili", Quantity: "2"},
			{Name: "Eno Fruit Salt", Quantity: "1 tsp"},
		},
		Steps: []string{
			"Mix flour, yogurt, and water into a batter.",
			"Steam the batter for 15-20 minutes.",
			"Prepare tempering with mustard seeds and curry leaves.",
			"Pour tempering over steamed dhokla.",
		},
		HealthTags:  []string{"Low Calorie", "Protein Rich", "Diabetic Friendly"},
		Description: "Steamed savory cake made from fermented batter.",
	}
}
