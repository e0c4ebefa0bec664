package cmd

import (
	"context"
	"log"
	"net/http"

	"beerchek/config"
	httpapi "beerchek/webapp-svc/internal/api/http"
	"beerchek/webapp-svc/internal/bridge"
	"beerchek/webapp-svc/internal/service"
	"beerchek/webapp-svc/internal/session"
	"beerchek/webapp-svc/internal/storage"
	"beerchek/webapp-svc/internal/web"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web app server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	ctx := context.Background()

	cat := loadCatalog(ctx, cfg)
	ratings := newRatingClient(cfg)

	var sessions service.SessionStore
	if cfg.RedisAddr != "" {
		rdb := config.MustInitRedis(cfg.RedisAddr)
		defer rdb.Close()
		sessions = storage.NewRedisSessionStore(rdb, cfg.SessionTTL)
	} else {
		log.Printf("Warning: REDIS_ADDR is not set, keeping sessions in memory")
		sessions = storage.NewMemorySessionStore(cfg.SessionTTL)
	}

	var transport bridge.Transport
	switch cfg.BridgeTransport {
	case config.TransportKafka:
		writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.BridgeTopic)
		defer writer.Close()
		transport = storage.NewKafkaPublisher(writer)
	case config.TransportHTTP:
		transport = bridge.NewMessengerTransport(cfg.BridgeEndpoint, cfg.RatingTimeout, &http.Client{})
	default:
		log.Printf("Warning: no bridge transport configured, ratings and photos go to the rating service only")
	}

	views := service.NewViewService(cat, ratings, sessions, transport, service.DefaultQRGenerator{BaseURL: cfg.PublicURL})

	page, err := web.LoadPage()
	if err != nil {
		log.Fatalf("Failed to parse page template: %v", err)
	}

	handler := httpapi.NewHandler(views, session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies), page, httpapi.Options{
		BotToken:       cfg.BotToken,
		InitDataMaxAge: cfg.InitDataMaxAge,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if cfg.BotToken == "" {
		log.Printf("Warning: BOT_TOKEN is not set, init data is trusted without verification")
	}

	httpapi.StartServer(cfg.HTTPAddr, httpapi.NewRouter(handler, cfg.AllowedOrigins))
}
