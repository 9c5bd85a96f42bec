package postgres

import (
	"context"
	"database/sql"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database"
)

var _ database.GeofenceRepository = (*GeofenceRepo)(nil)

type GeofenceRepo struct {
	db *sql.DB
}

func NewGeofenceRepo(db *sql.DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

func (r *GeofenceRepo) Create(ctx context.Context, gf *domain.Geofence) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO geofences (id, patient_id, center_lat, center_lon, radius_meters, alert_on_enter, alert_on_exit, active) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		gf.ID, gf.PatientID, gf.Center.Lat, gf.Center.Lon, gf.RadiusMeters, gf.AlertOnEnter, gf.AlertOnExit, gf.Active,
	)
	return err
}

func (r *GeofenceRepo) Update(ctx context.Context, gf *domain.Geofence) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE geofences SET center_lat = $2, center_lon = $3, radius_meters = $4, alert_on_enter = $5, alert_on_exit = $6, active = $7 WHERE id = $1`,
		gf.ID, gf.Center.Lat, gf.Center.Lon, gf.RadiusMeters, gf.AlertOnEnter, gf.AlertOnExit, gf.Active,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *GeofenceRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM geofences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *GeofenceRepo) GetByID(ctx context.Context, id string) (*domain.Geofence, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, patient_id, center_lat, center_lon, radius_meters, alert_on_enter, alert_on_exit, active FROM geofences WHERE id = $1`,
		id,
	)
	var gf domain.Geofence
	if err := row.Scan(&gf.ID, &gf.PatientID, &gf.Center.Lat, &gf.Center.Lon, &gf.RadiusMeters, &gf.AlertOnEnter, &gf.AlertOnExit, &gf.Active); err != nil {
		return nil, err
	}
	return &gf, nil
}

func (r *GeofenceRepo) ListForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error) {
	return r.list(ctx,
		`SELECT id, patient_id, center_lat, center_lon, radius_meters, alert_on_enter, alert_on_exit, active FROM geofences WHERE patient_id = $1 ORDER BY id`,
		patientID,
	)
}

func (r *GeofenceRepo) ListActiveForPatient(ctx context.Context, patientID string) ([]domain.Geofence, error) {
	return r.list(ctx,
		`SELECT id, patient_id, center_lat, center_lon, radius_meters, alert_on_enter, alert_on_exit, active FROM geofences WHERE patient_id = $1 AND active ORDER BY id`,
		patientID,
	)
}

func (r *GeofenceRepo) list(ctx context.Context, query string, patientID string) ([]domain.Geofence, error) {
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Geofence
	for rows.Next() {
		var gf domain.Geofence
		if err := rows.Scan(&gf.ID, &gf.PatientID, &gf.Center.Lat, &gf.Center.Lon, &gf.RadiusMeters, &gf.AlertOnEnter, &gf.AlertOnExit, &gf.Active); err != nil {
			return nil, err
		}
		results = append(results, gf)
	}
	return results, rows.Err()
}
