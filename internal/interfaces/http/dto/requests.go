package dto

// LimitQuery is the common ?limit= parameter
type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// CompareMonthsQuery selects the two KPI months to compare
type CompareMonthsQuery struct {
	First  string `form:"first" binding:"omitempty,year_month"`
	Second string `form:"second" binding:"omitempty,year_month"`
}

// CustomerListQuery filters the customer list
type CustomerListQuery struct {
	Segment string `form:"segment" binding:"omitempty,max=64"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// RankingQuery selects a product ranking
type RankingQuery struct {
	Metric   string `form:"metric" binding:"omitempty,oneof=revenue quantity growth penetration"`
	Category string `form:"category" binding:"omitempty,max=128"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ProductCompareQuery selects products and the comparison window
type ProductCompareQuery struct {
	Codes  string `form:"codes" binding:"required"`
	Months *int   `form:"months" binding:"omitempty,oneof=6 12 18 24"`
}

// ProductDetailQuery optionally attaches a month's prediction
type ProductDetailQuery struct {
	PredictionMonth string `form:"prediction_month" binding:"omitempty,prediction_month"`
}

// ForecastQuery selects one customer-product forecast
type ForecastQuery struct {
	Month    string `form:"month" binding:"required,prediction_month"`
	Customer string `form:"customer" binding:"required,max=128"`
	Product  string `form:"product" binding:"required,max=128"`
}

// NetworkQuery sets the minimum lift of network edges
type NetworkQuery struct {
	MinLift *float64 `form:"min_lift" binding:"omitempty,gte=1,lte=3"`
}

// TokenRequest exchanges an access key for a viewer token
type TokenRequest struct {
	Name string `json:"name" binding:"required,max=64"`
	Key  string `json:"key" binding:"required,max=256"`
}

// RefreshRequest selects the datasets to refresh; empty means all
type RefreshRequest struct {
	Datasets []string `json:"datasets" binding:"omitempty,dive,oneof=kpi customers products basket predictions"`
}
