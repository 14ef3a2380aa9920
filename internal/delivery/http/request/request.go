package request

type FeaturesRequest struct {
	URLs []string `json:"urls"`
}

// EnrichRequest queues URLs for enrichment; every URL gets the same label.
type EnrichRequest struct {
	URLs  []string `json:"urls"`
	Label string   `json:"label"`
	Force bool     `json:"force"`
}
