package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

const locationTopic = "/guardian/patient/+/location"

type locationService interface {
	SaveLocation(ctx context.Context, pl *domain.PatientLocation) error
}

type geofenceEvaluator interface {
	Evaluate(ctx context.Context, pl *domain.PatientLocation) error
}

type anomalyService interface {
	Observe(ctx context.Context, pl *domain.PatientLocation) (domain.PatientStatus, error)
}

type locationMessage struct {
	PatientID      string   `json:"patient_id"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Timestamp      int64    `json:"timestamp"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	SpeedKmh       *float64 `json:"speed_kmh,omitempty"`
	BatteryPct     *float64 `json:"battery_pct,omitempty"`
	Wandering      bool     `json:"wandering,omitempty"`
}

// LocationSubscriber feeds the evaluation pipeline from the MQTT location
// stream. Each message is processed synchronously so samples for a patient
// reach the evaluator in delivery order.
type LocationSubscriber struct {
	client      mqtt.Client
	locationSvc locationService
	geofenceSvc geofenceEvaluator
	anomalySvc  anomalyService
	logger      *zap.Logger
}

func NewLocationSubscriber(client mqtt.Client, locationSvc locationService, geofenceSvc geofenceEvaluator, anomalySvc anomalyService, logger *zap.Logger) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		locationSvc: locationSvc,
		geofenceSvc: geofenceSvc,
		anomalySvc:  anomalySvc,
		logger:      logger,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(locationTopic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) Stop() {
	token := s.client.Unsubscribe(locationTopic)
	token.Wait()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid location message", zap.Error(err))
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		s.logger.Warn("location validation error", zap.Error(err))
		return
	}

	pl := &domain.PatientLocation{
		PatientID: raw.PatientID,
		Location: domain.Location{
			Lat:            raw.Latitude,
			Lon:            raw.Longitude,
			Timestamp:      time.Unix(raw.Timestamp, 0),
			AccuracyMeters: raw.AccuracyMeters,
			SpeedKmh:       raw.SpeedKmh,
			BatteryPct:     raw.BatteryPct,
		},
		Wandering: raw.Wandering,
	}

	ctx := context.Background()

	if err := s.locationSvc.SaveLocation(ctx, pl); err != nil {
		s.logger.Error("save location", zap.String("patient_id", pl.PatientID), zap.Error(err))
		return
	}

	if err := s.geofenceSvc.Evaluate(ctx, pl); err != nil {
		s.logger.Error("geofence evaluation", zap.String("patient_id", pl.PatientID), zap.Error(err))
	}

	if _, err := s.anomalySvc.Observe(ctx, pl); err != nil {
		s.logger.Error("anomaly observation", zap.String("patient_id", pl.PatientID), zap.Error(err))
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.PatientID == "" {
		return fmt.Errorf("patient_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
