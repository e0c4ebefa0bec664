package main

import (
	"log"
	"net/http"
	"time"

	"beerchek/api-gateway/internal/gateway"
	"beerchek/config"

	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	gw := gateway.NewGateway(gateway.Config{
		WebappSvcURL: cfg.WebappSvcURL,
		RatingSvcURL: cfg.RatingSvcURL,
	}, gateway.NewProxyClient(30*time.Second))

	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	log.Printf("API Gateway starting on %s", cfg.GatewayAddr)
	log.Fatal(http.ListenAndServe(cfg.GatewayAddr, handler))
}
