package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"beerchek/config"
	"beerchek/webapp-svc/internal/bridge"
	"beerchek/webapp-svc/internal/relay"

	"github.com/spf13/cobra"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Forward bridge messages from Kafka to the bot's webapp-data endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		runRelay()
	},
}

func init() {
	rootCmd.AddCommand(relayCmd)
}

func runRelay() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if cfg.KafkaBroker == "" || cfg.BridgeEndpoint == "" {
		log.Fatal("KAFKA_BROKER and BRIDGE_ENDPOINT must be set for the relay")
	}

	reader := config.NewKafkaReader(cfg.KafkaBroker, cfg.BridgeTopic, cfg.RelayGroupID)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forwarder := bridge.NewMessengerTransport(cfg.BridgeEndpoint, cfg.RatingTimeout, &http.Client{})
	if err := relay.NewConsumer(reader, forwarder).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Relay stopped: %v", err)
	}
	log.Println("[RELAY] stopped")
}
