package postgres

import (
	"context"
	"database/sql"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, pl *domain.PatientLocation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_locations (patient_id, latitude, longitude, accuracy_meters, speed_kmh, battery_pct, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pl.PatientID, pl.Location.Lat, pl.Location.Lon,
		nullFloat(pl.Location.AccuracyMeters), nullFloat(pl.Location.SpeedKmh), nullFloat(pl.Location.BatteryPct),
		pl.Location.Timestamp,
	)
	return err
}

func (r *LocationRepo) GetLatest(ctx context.Context, patientID string) (*domain.PatientLocation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT patient_id, latitude, longitude, accuracy_meters, speed_kmh, battery_pct, timestamp FROM patient_locations WHERE patient_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		patientID,
	)
	return scanLocation(row)
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PatientLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT patient_id, latitude, longitude, accuracy_meters, speed_kmh, battery_pct, timestamp FROM patient_locations WHERE patient_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.PatientID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.PatientLocation
	for rows.Next() {
		pl, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *pl)
	}
	return results, rows.Err()
}

func (r *LocationRepo) GetAllPatients(ctx context.Context) ([]domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT patient_id FROM patient_locations ORDER BY patient_id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Patient
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.PatientID); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*domain.PatientLocation, error) {
	var pl domain.PatientLocation
	var accuracy, speed, battery sql.NullFloat64
	if err := row.Scan(&pl.PatientID, &pl.Location.Lat, &pl.Location.Lon, &accuracy, &speed, &battery, &pl.Location.Timestamp); err != nil {
		return nil, err
	}
	pl.Location.AccuracyMeters = floatPtr(accuracy)
	pl.Location.SpeedKmh = floatPtr(speed)
	pl.Location.BatteryPct = floatPtr(battery)
	return &pl, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
