package config

import (
	"os"
	"strings"
)

// Config holds the process-level configuration, read from the environment.
// Per-event engine thresholds live in the profile file, not here.
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	ProfilesPath string

	// Queue ingestion; either may be empty to disable that source
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/gates/gates.db"
	}

	mqttTopic := os.Getenv("MQTT_TOPIC")
	if mqttTopic == "" {
		mqttTopic = "venues/+/scans"
	}

	mqttClientID := os.Getenv("MQTT_CLIENT_ID")
	if mqttClientID == "" {
		mqttClientID = "gate-discovery"
	}

	var kafkaBrokers []string
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaBrokers = strings.Split(brokers, ",")
	}

	kafkaTopic := os.Getenv("KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "entry-scans"
	}

	kafkaGroup := os.Getenv("KAFKA_GROUP_ID")
	if kafkaGroup == "" {
		kafkaGroup = "gate-discovery"
	}

	return &Config{
		Port:         port,
		DBPath:       dbPath,
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ProfilesPath: os.Getenv("PROFILES_PATH"),
		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTClientID: mqttClientID,
		MQTTTopic:    mqttTopic,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   kafkaTopic,
		KafkaGroupID: kafkaGroup,
	}
}
