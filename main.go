package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"aigongjang/api"
	"aigongjang/config"
	"aigongjang/pipeline"
	"aigongjang/shared/kafka"
	"aigongjang/state"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	defaults := config.Default()
	if v := os.Getenv("TTS_VOICE"); v != "" {
		defaults.Voice = ResolveVoice(v)
	} else {
		defaults.Voice = ResolveVoice(DefaultVoicePreset)
	}

	st := state.NewManager()
	deps := api.Deps{State: st, Defaults: defaults}

	// With KAFKA_BROKERS set the server only queues topics for workers;
	// otherwise it runs the whole pipeline in-process.
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topicName := config.GetEnvOrDefault("KAFKA_TOPIC", "video-topics")
		producer, err := kafka.NewProducer(strings.Split(brokers, ","), topicName)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer producer.Close()
		deps.Queue = producer
		log.Printf("Queueing topics to Kafka topic %q", topicName)
	} else {
		p, err := pipeline.FromEnv(st, defaults)
		if err != nil {
			log.Fatalf("pipeline: %v", err)
		}
		deps.Pipeline = p
		log.Println("Running pipeline in-process (no KAFKA_BROKERS set)")
	}

	r := api.NewRouter(deps)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/generate")
	log.Println("  GET  /api/runs")
	log.Println("  GET  /api/runs/:id")
	log.Println("  GET  /api/runs/:id/video")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
