// Command simulator walks a scripted scenario and publishes each tick over
// MQTT, so the server pipeline receives samples indistinguishable from a
// real GPS watch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/simulator"
)

type locationMessage struct {
	PatientID string  `json:"patient_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
	Wandering bool    `json:"wandering,omitempty"`
}

func loadScenario(path string) (*simulator.Scenario, error) {
	if path == "" {
		return simulator.HsinchuDemo(), nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc simulator.Scenario
	if err := json.Unmarshal(body, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

func main() {
	scenarioPath := flag.String("scenario", "", "scenario JSON file (default: built-in Hsinchu demo)")
	interval := flag.Duration("interval", time.Second, "tick interval")
	patientID := flag.String("patient", "", "override scenario patient id")
	flag.Parse()

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("scenario: %v", err)
	}
	if *patientID != "" {
		sc.PatientID = *patientID
	}

	run, err := simulator.NewRun(sc, simulator.SystemClock())
	if err != nil {
		log.Fatalf("scenario: %v", err)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("guardian-simulator")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	run.Start()
	log.Printf("scenario %q for patient %s, ticking every %s", sc.Name, sc.PatientID, *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			run.Stop()
			log.Println("stopped")
			return
		case <-ticker.C:
			tick, ok := run.Step()
			if !ok {
				log.Printf("scenario %s", run.Phase())
				return
			}

			msg := locationMessage{
				PatientID: tick.Location.PatientID,
				Latitude:  tick.Location.Location.Lat,
				Longitude: tick.Location.Location.Lon,
				Timestamp: tick.Location.Location.Timestamp.Unix(),
				Wandering: tick.Location.Wandering,
			}
			payload, _ := json.Marshal(msg)
			topic := fmt.Sprintf("/guardian/patient/%s/location", msg.PatientID)

			token := client.Publish(topic, 1, false, payload)
			token.Wait()

			if tick.SideAlert != nil {
				log.Printf("side alert: %s", *tick.SideAlert)
			}
			log.Printf("[%s] published to %s: %s", tick.Phase, topic, payload)
		}
	}
}
