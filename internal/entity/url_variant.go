package entity

// URLVariant is the parsed model output for one source URL.
type URLVariant struct {
	Original   string   `json:"original"`
	Variations []string `json:"variations"`
	Skipped    bool     `json:"skipped"`
	Reason     string   `json:"reason,omitempty"`
}
