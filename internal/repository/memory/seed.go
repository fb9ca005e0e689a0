package memory

import "github.com/syndic-console/reclamation-service/internal/domain"

// SeedDemoDirectory loads the same building and apartments the SQL seed migration provisions.
func SeedDemoDirectory(s *Store) {
	s.AddBuilding(domain.Building{ID: "bld-atlas", Name: "Residence Atlas"})
	for _, apt := range []domain.Apartment{
		{ID: "apt-atlas-1a", Number: "1A", BuildingID: "bld-atlas"},
		{ID: "apt-atlas-1b", Number: "1B", BuildingID: "bld-atlas"},
		{ID: "apt-atlas-2a", Number: "2A", BuildingID: "bld-atlas"},
	} {
		s.AddApartment(apt)
	}
}
