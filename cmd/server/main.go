package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/choices"
	"github.com/andestrip/registration-api/internal/config"
	"github.com/andestrip/registration-api/internal/database"
	"github.com/andestrip/registration-api/internal/handlers"
	"github.com/andestrip/registration-api/internal/notifier"
	"github.com/andestrip/registration-api/internal/pricing"
	"github.com/andestrip/registration-api/internal/queue"
	"github.com/andestrip/registration-api/internal/registration"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Pricing cache (in-memory tier always on, redis tier optional)
	cache := pricing.NewCache(database.ConnectRedis(cfg), cfg.CacheTTL)

	// Out-of-band reporting
	var discordNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			discordNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	publisher := queue.NewPublisher(cfg.AmqpURL)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	engine := choices.NewEngine(db, cache, discordNotifier, publisher, cfg.AdminEmails)
	store := registration.NewStore(db, cache, discordNotifier, publisher)
	calc := pricing.NewCalculator(db, cache)

	choiceHandler := handlers.NewChoiceHandler(engine)
	registrationHandler := handlers.NewRegistrationHandler(store)
	pricingHandler := handlers.NewPricingHandler(calc)
	adminHandler := handlers.NewAdminHandler(engine)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, choiceHandler, registrationHandler, pricingHandler, adminHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
