package entity

// EnrichTask is one queued unit of work: a URL and the class label it carries into the dataset.
type EnrichTask struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}
