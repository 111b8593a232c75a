package domain

// sampleCatalog is the three-car catalog used across the domain tests
func sampleCatalog() []CatalogItem {
	return []CatalogItem{
		{ID: "a", Brand: "Tesla", Model: "Model 3", CurrentPrice: "20,000 €", Year: 2021, Mileage: 30000, FuelType: "electric", IsNew: false, IsAvailable: true},
		{ID: "b", Brand: "Tesla", Model: "Model Y", CurrentPrice: "35,000 €", Year: 2023, Mileage: 5000, FuelType: "electric", IsNew: true, IsAvailable: true},
		{ID: "c", Brand: "BMW", Model: "X5", CurrentPrice: "25,000 €", Year: 2022, Mileage: 15000, FuelType: "diesel", IsNew: false, IsAvailable: false},
	}
}

// equipmentCatalog covers the categorical attributes; p has no year or mileage
func equipmentCatalog() []CatalogItem {
	return []CatalogItem{
		{ID: "p", Brand: "Volvo", CurrentPrice: "30,000 €", FuelType: "diesel", Transmission: "automatic", BodyType: "suv", Color: "black"},
		{ID: "q", Brand: "Skoda", CurrentPrice: "15,000 €", Year: 2020, Mileage: 12000, FuelType: "Diesel", Transmission: "manual", BodyType: "sedan", Color: "white"},
		{ID: "r", Brand: "Mazda", CurrentPrice: "22,000 €", Year: 2018, Mileage: 500, FuelType: "petrol", Transmission: "automatic", BodyType: "sedan", Color: "black"},
	}
}

func ids(items []CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
