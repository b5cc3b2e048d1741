package dto

type PlanInfo struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	PricePerMeal float64 `json:"price_per_meal"`
}
