package models

// ChatRequest defines the structure for requests to the analytics chatbot.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse carries the model's free-text answer. The pipeline never
// parses it, only returns it to the caller.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// DashboardCard is one metric card on the analytics dashboard.
type DashboardCard struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardSummary is the flattened view the web dashboard renders.
type DashboardSummary struct {
	Cards           []DashboardCard  `json:"cards"`
	TopProducts     []ProductSummary `json:"top_products"`
	Recommendations []Recommendation `json:"recommendations"`
	Currency        string           `json:"currency"`
}
