package subscriber

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
)

const beaconTopic = "/guardian/scanner/+/beacon"

type beaconEstimator interface {
	Process(ctx context.Context, r *domain.BeaconReading) error
}

type beaconMessage struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
	RSSI     int    `json:"rssi"`
	// ManufacturerData is hex-encoded on the wire.
	ManufacturerData string `json:"manufacturer_data,omitempty"`
	Timestamp        int64  `json:"timestamp"`
}

// BeaconSubscriber feeds raw scan callbacks into the proximity estimator.
// Messages arrive on no fixed schedule; each is processed synchronously and
// in order.
type BeaconSubscriber struct {
	client    mqtt.Client
	estimator beaconEstimator
	logger    *zap.Logger
}

func NewBeaconSubscriber(client mqtt.Client, estimator beaconEstimator, logger *zap.Logger) *BeaconSubscriber {
	return &BeaconSubscriber{client: client, estimator: estimator, logger: logger}
}

func (s *BeaconSubscriber) Start() error {
	token := s.client.Subscribe(beaconTopic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *BeaconSubscriber) Stop() {
	token := s.client.Unsubscribe(beaconTopic)
	token.Wait()
}

func (s *BeaconSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw beaconMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid beacon message", zap.Error(err))
		return
	}

	if err := validateBeaconMessage(&raw); err != nil {
		s.logger.Warn("beacon validation error", zap.Error(err))
		return
	}

	var data []byte
	if raw.ManufacturerData != "" {
		decoded, err := hex.DecodeString(raw.ManufacturerData)
		if err != nil {
			s.logger.Warn("invalid manufacturer data", zap.String("device_id", raw.DeviceID), zap.Error(err))
			return
		}
		data = decoded
	}

	reading := &domain.BeaconReading{
		DeviceID:         raw.DeviceID,
		Name:             raw.Name,
		RSSI:             raw.RSSI,
		ManufacturerData: data,
		Timestamp:        time.Unix(raw.Timestamp, 0),
	}

	if err := s.estimator.Process(context.Background(), reading); err != nil {
		s.logger.Error("beacon processing", zap.String("device_id", raw.DeviceID), zap.Error(err))
	}
}

func validateBeaconMessage(msg *beaconMessage) error {
	if msg.DeviceID == "" {
		return fmt.Errorf("device_id: required")
	}
	if msg.RSSI >= 0 || msg.RSSI < -120 {
		return fmt.Errorf("rssi: must be between -120 and -1 dBm")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
