// Package model defines the products, resources and inputs of the production
// mix problem and converts them into a linear-program instance.
package model

import "fmt"

// Product identifies one of the two products being planned.
type Product int

const (
	TeaBottle Product = iota
	FruitJuice
)

// Products lists every product in column order.
var Products = []Product{TeaBottle, FruitJuice}

// String returns the identifier used in configuration and JSON payloads.
func (p Product) String() string {
	switch p {
	case TeaBottle:
		return "teaBottle"
	case FruitJuice:
		return "fruitJuice"
	default:
		return fmt.Sprintf("product(%d)", int(p))
	}
}

// Label returns the human-readable product name.
func (p Product) Label() string {
	switch p {
	case TeaBottle:
		return "Tea Bottle"
	case FruitJuice:
		return "Fruit Juice"
	default:
		return p.String()
	}
}

// Resource identifies one of the three limited monthly resources.
type Resource int

const (
	Water Resource = iota
	Sugar
	Labor
)

// Resources lists every resource in row order.
var Resources = []Resource{Water, Sugar, Labor}

// String returns the identifier used in configuration and JSON payloads.
func (r Resource) String() string {
	switch r {
	case Water:
		return "water"
	case Sugar:
		return "sugar"
	case Labor:
		return "labor"
	default:
		return fmt.Sprintf("resource(%d)", int(r))
	}
}

// Label returns the human-readable resource name.
func (r Resource) Label() string {
	switch r {
	case Water:
		return "Water"
	case Sugar:
		return "Sugar"
	case Labor:
		return "Labor"
	default:
		return r.String()
	}
}

// Unit returns the measurement unit of the resource.
func (r Resource) Unit() string {
	switch r {
	case Water:
		return "ml"
	case Sugar:
		return "g"
	case Labor:
		return "minutes"
	default:
		return ""
	}
}

// ProductParams holds the per-unit profit and resource requirements of a product.
type ProductParams struct {
	Profit float64 `json:"profit" yaml:"profit" mapstructure:"profit"`
	Water  float64 `json:"water" yaml:"water" mapstructure:"water"`
	Sugar  float64 `json:"sugar" yaml:"sugar" mapstructure:"sugar"`
	Labor  float64 `json:"labor" yaml:"labor" mapstructure:"labor"`
}

// Requirement returns the per-unit amount of a resource consumed by the product.
func (p ProductParams) Requirement(r Resource) float64 {
	switch r {
	case Water:
		return p.Water
	case Sugar:
		return p.Sugar
	case Labor:
		return p.Labor
	default:
		return 0
	}
}

// Capacities holds the monthly availability of each resource.
type Capacities struct {
	Water float64 `json:"water" yaml:"water" mapstructure:"water"`
	Sugar float64 `json:"sugar" yaml:"sugar" mapstructure:"sugar"`
	Labor float64 `json:"labor" yaml:"labor" mapstructure:"labor"`
}

// Of returns the capacity of a resource.
func (c Capacities) Of(r Resource) float64 {
	switch r {
	case Water:
		return c.Water
	case Sugar:
		return c.Sugar
	case Labor:
		return c.Labor
	default:
		return 0
	}
}

// Scale returns the capacities multiplied by k.
func (c Capacities) Scale(k float64) Capacities {
	return Capacities{Water: c.Water * k, Sugar: c.Sugar * k, Labor: c.Labor * k}
}

// Input is everything a single run needs. It is passed explicitly through the
// build, solve and chart steps.
type Input struct {
	TeaBottle  ProductParams `json:"teaBottle" yaml:"teaBottle" mapstructure:"teaBottle"`
	FruitJuice ProductParams `json:"fruitJuice" yaml:"fruitJuice" mapstructure:"fruitJuice"`
	Capacities Capacities    `json:"capacities" yaml:"capacities" mapstructure:"capacities"`
}

// Product returns the parameters of p.
func (in Input) Product(p Product) ProductParams {
	if p == FruitJuice {
		return in.FruitJuice
	}
	return in.TeaBottle
}

// Requirement returns the per-unit requirement of resource r for product p.
func (in Input) Requirement(p Product, r Resource) float64 {
	return in.Product(p).Requirement(r)
}

// Profit returns the per-unit profit of product p.
func (in Input) Profit(p Product) float64 {
	return in.Product(p).Profit
}

// Degenerate reports whether no product consumes resource r.
func (in Input) Degenerate(r Resource) bool {
	return in.TeaBottle.Requirement(r) == 0 && in.FruitJuice.Requirement(r) == 0
}

// Warning is a non-fatal observation made while building an instance.
type Warning struct {
	Resource Resource `json:"-"`
	Message  string   `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}
