package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	BaseURL       string
	DatabaseDSN   string
	AccessSecret  string
	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string
	UploadFolder  string
	AdminPassword string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	cfg := Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		BaseURL:       os.Getenv("BASE_URL"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		AccessSecret:  os.Getenv("ACCESS_SECRET"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
		UploadFolder:  os.Getenv("UPLOAD_FOLDER"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = ":3000"
	}
	if cfg.UploadFolder == "" {
		cfg.UploadFolder = "error-attachments"
	}

	return cfg
}
