package component

// Fruit marks a body as a fruit of the given catalog tier.
type Fruit struct {
	Tier int
	Name string
}

var FruitComponent = NewComponent[Fruit]()
