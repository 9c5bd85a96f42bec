package core

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	handler "github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/handler/http"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/handler/subscriber"
	cacheredis "github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/cache/redis"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/database/postgres"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/publisher/rabbitmq"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/service"
)

type Module struct {
	LocationSvc *service.LocationService
	GeofenceSvc *service.GeofenceEvaluator
	AnomalySvc  *service.AnomalyService
	BeaconSvc   *service.BeaconEstimator

	patientHandler  *handler.PatientHandler
	geofenceHandler *handler.GeofenceHandler
	beaconHandler   *handler.BeaconHandler
	locationSub     *subscriber.LocationSubscriber
	beaconSub       *subscriber.BeaconSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, redisClient *goredis.Client, beaconCfg service.BeaconConfig, logger *zap.Logger) (*Module, error) {
	locationRepo := postgres.NewLocationRepo(db)
	geofenceRepo := postgres.NewGeofenceRepo(db)
	statusCache := cacheredis.NewStatusCache(redisClient)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	locationSvc := service.NewLocationService(locationRepo)
	geofenceSvc := service.NewGeofenceEvaluator(alertPub, geofenceRepo, logger)
	anomalySvc := service.NewAnomalyService(alertPub, statusCache, logger)
	beaconSvc := service.NewBeaconEstimator(beaconCfg, alertPub, logger)
	geofenceAdmin := service.NewGeofenceAdminService(geofenceRepo, geofenceSvc)

	return &Module{
		LocationSvc:     locationSvc,
		GeofenceSvc:     geofenceSvc,
		AnomalySvc:      anomalySvc,
		BeaconSvc:       beaconSvc,
		patientHandler:  handler.NewPatientHandler(locationSvc, statusCache),
		geofenceHandler: handler.NewGeofenceHandler(geofenceAdmin),
		beaconHandler:   handler.NewBeaconHandler(beaconSvc),
		locationSub:     subscriber.NewLocationSubscriber(mqttClient, locationSvc, geofenceSvc, anomalySvc, logger),
		beaconSub:       subscriber.NewBeaconSubscriber(mqttClient, beaconSvc, logger),
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.patientHandler.Register(r)
	m.geofenceHandler.Register(r)
	m.beaconHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	if err := m.locationSub.Start(); err != nil {
		return err
	}
	return m.beaconSub.Start()
}

// StopSubscribers unsubscribes both ingest topics. Part of teardown so no
// scan or location handler keeps firing after shutdown begins.
func (m *Module) StopSubscribers() {
	m.locationSub.Stop()
	m.beaconSub.Stop()
}
