package models

// TopSeller is a product and the units sold of it.
type TopSeller struct {
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

// ProductPair counts baskets that contained both products.
type ProductPair struct {
	ProductPair [2]uint `json:"product_pair"`
	Count       int64   `json:"count"`
}

// CategoryTrend is the units sold in a category.
type CategoryTrend struct {
	Category  string `json:"category"`
	TotalSold int64  `json:"total_sold"`
}

// MonthlyTrend is the units of a product sold in one calendar month (YYYY-MM).
type MonthlyTrend struct {
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
	Month     string `json:"month"`
}

// Recommendations bundles every analytics view.
type Recommendations struct {
	TopSellers               []TopSeller     `json:"top_sellers"`
	RestockSuggestions       []string        `json:"restock_suggestions"`
	FrequentlyBoughtTogether []ProductPair   `json:"frequently_bought_together"`
	CategoryTrends           []CategoryTrend `json:"category_trends"`
	TimeBasedRecommendations []MonthlyTrend  `json:"time_based_recommendations"`
}
