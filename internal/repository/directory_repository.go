package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository instantiates the read-only building/apartment repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) GetBuilding(ctx context.Context, id string) (*domain.Building, error) {
	var b domain.Building
	err := getQuerier(ctx, r.pool).QueryRow(ctx, `SELECT id, name FROM buildings WHERE id=$1`, id).Scan(&b.ID, &b.Name)
	if err != nil {
		return nil, storageError(err, "building", id)
	}
	return &b, nil
}

func (r *directoryRepository) GetApartment(ctx context.Context, id string) (*domain.Apartment, error) {
	const q = `
        SELECT a.id, a.number, a.building_id, b.name, a.resident_id
        FROM apartments a JOIN buildings b ON b.id = a.building_id
        WHERE a.id=$1`
	var a domain.Apartment
	err := getQuerier(ctx, r.pool).QueryRow(ctx, q, id).Scan(&a.ID, &a.Number, &a.BuildingID, &a.BuildingName, &a.ResidentID)
	if err != nil {
		return nil, storageError(err, "apartment", id)
	}
	return &a, nil
}

func (r *directoryRepository) ListApartmentsByBuilding(ctx context.Context, buildingID string) ([]domain.Apartment, error) {
	const q = `
        SELECT a.id, a.number, a.building_id, b.name, a.resident_id
        FROM apartments a JOIN buildings b ON b.id = a.building_id
        WHERE a.building_id=$1 ORDER BY a.number ASC`
	rows, err := getQuerier(ctx, r.pool).Query(ctx, q, buildingID)
	if err != nil {
		return nil, storageError(err, "apartment", "")
	}
	defer rows.Close()

	result := []domain.Apartment{}
	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ID, &a.Number, &a.BuildingID, &a.BuildingName, &a.ResidentID); err != nil {
			return nil, storageError(err, "apartment", "")
		}
		result = append(result, a)
	}
	return result, storageError(rows.Err(), "apartment", "")
}
