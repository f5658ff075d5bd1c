// Package optimization provides shared data structures for optimization results.
package optimization

// Summary is the display form of one solve run.
type Summary struct {
	Success       bool           `json:"success"`
	Status        string         `json:"status"`
	Message       string         `json:"message,omitempty"`
	Products      []ProductLine  `json:"products,omitempty"`
	Resources     []ResourceLine `json:"resources,omitempty"`
	Profit        float64        `json:"profit"`
	ProfitDisplay string         `json:"profitDisplay,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// ProductLine captures the planned output of a single product.
type ProductLine struct {
	Name                string  `json:"name"`
	Label               string  `json:"label"`
	Quantity            float64 `json:"quantity"`
	UnitProfit          float64 `json:"unitProfit"`
	Contribution        float64 `json:"contribution"`
	QuantityDisplay     string  `json:"quantityDisplay,omitempty"`
	ContributionDisplay string  `json:"contributionDisplay,omitempty"`
}

// ResourceLine captures how much of a resource the plan consumes.
type ResourceLine struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	Unit     string  `json:"unit"`
	Used     float64 `json:"used"`
	Capacity float64 `json:"capacity"`
	Slack    float64 `json:"slack"`
	Binding  bool    `json:"binding"`
}

// BindingResources returns the labels of the resources the plan exhausts.
func (s Summary) BindingResources() []string {
	var names []string
	for _, r := range s.Resources {
		if r.Binding {
			names = append(names, r.Label)
		}
	}
	return names
}
