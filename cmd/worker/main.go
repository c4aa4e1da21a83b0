// The worker consumes topic requests from Kafka, runs the full generation
// pipeline for each, and optionally archives the result to S3 and publishes
// it to YouTube.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"aigongjang/common"
	"aigongjang/config"
	"aigongjang/pipeline"
	"aigongjang/publish"
	"aigongjang/shared/kafka"
	sharedtypes "aigongjang/shared/types"
	"aigongjang/state"
	"aigongjang/types"
)

func main() {
	_ = godotenv.Load()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Fatal("KAFKA_BROKERS environment variable not set")
	}

	defaults := config.Default()
	st := state.NewManager()
	p, err := pipeline.FromEnv(st, defaults)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	var archive *common.S3
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if a, err := common.NewS3FromEnv(ctx); err == nil {
		archive = a
	} else {
		log.Printf("S3 archive disabled: %v", err)
	}

	var uploader *publish.YouTube
	if f := os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE"); f != "" {
		if u, err := publish.NewYouTube(ctx, f); err == nil {
			uploader = u
		} else {
			log.Printf("YouTube publishing disabled: %v", err)
		}
	}

	handler := &kafka.TypedMessageHandler[sharedtypes.TopicRequest]{
		Validate:   func(msg *sharedtypes.TopicRequest) bool { return msg.Valid() },
		AlwaysMark: true,
		Process: func(ctx context.Context, msg *sharedtypes.TopicRequest) error {
			return processTopic(ctx, p, defaults, archive, uploader, msg)
		},
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   config.GetEnvOrDefault("KAFKA_TOPIC", "video-topics"),
		GroupID: config.GetEnvOrDefault("KAFKA_GROUP_ID", "video-workers"),
		Handler: handler,
	})
	if err != nil {
		log.Fatalf("kafka consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("kafka consumer start: %v", err)
	}
	defer consumer.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down worker...")
	cancel()
}

// processTopic runs one request end to end. A failed run returns an error so
// the message stays unmarked and is retried by the group.
func processTopic(ctx context.Context, p *pipeline.Pipeline, defaults config.RunConfig,
	archive *common.S3, uploader *publish.YouTube, msg *sharedtypes.TopicRequest) error {

	cfg := mergeConfig(defaults, msg)
	report := p.Run(ctx, msg.Topic, cfg)
	if report.State != types.StateRendered {
		log.Printf("❌ Run for %q failed: %s", msg.Topic, report.Error)
		return fmt.Errorf("run failed: %s", report.Error)
	}
	log.Printf("✅ Rendered %q -> %s (%.1fs)", report.Title, report.OutputPath, report.Duration)

	if archive != nil {
		if key, err := archive.PutFile(ctx, report.OutputPath, "video/mp4"); err != nil {
			log.Printf("❌ Archive upload failed: %v", err)
		} else {
			log.Printf("✅ Archived to s3 key %s", key)
		}
	}

	if uploader != nil {
		metadata := publish.GenerateMetadata(report.Title, report.Topic)
		if id, err := uploader.Upload(report.OutputPath, metadata); err != nil {
			log.Printf("❌ YouTube upload failed: %v", err)
		} else {
			log.Printf("✅ Published video %s", id)
		}
	}
	return nil
}

func mergeConfig(cfg config.RunConfig, msg *sharedtypes.TopicRequest) config.RunConfig {
	if msg.Style != "" {
		cfg.Style = msg.Style
	}
	if msg.Voice != "" {
		cfg.Voice = msg.Voice
	}
	if msg.BGMMood != "" {
		cfg.BGMMood = msg.BGMMood
	}
	if msg.SceneCount > 0 {
		cfg.SceneCount = msg.SceneCount
	}
	if msg.CharacterDesc != "" {
		cfg.CharacterDesc = msg.CharacterDesc
	}
	if msg.Subtitles != nil {
		cfg.Subtitles = *msg.Subtitles
	}
	return cfg
}
