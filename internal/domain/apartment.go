package domain

// Building groups apartments under one syndic.
type Building struct {
	ID   string
	Name string
}

// Apartment is a billable unit inside a building.
type Apartment struct {
	ID           string
	Number       string
	BuildingID   string
	BuildingName string
	ResidentID   *string
}
