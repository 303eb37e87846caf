package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	config "github.com/tasmeeapp/pairing_backend/configs"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/jobs"
	"github.com/tasmeeapp/pairing_backend/notifications"
	"github.com/tasmeeapp/pairing_backend/routes"
	"github.com/tasmeeapp/pairing_backend/services"
	"github.com/tasmeeapp/pairing_backend/websocket"
)

func main() {
	database.ConnectDB()
	database.Migrate()

	var bus notifications.Bus
	if redisURL := config.Config("REDIS_URL"); redisURL != "" {
		redisBus, err := notifications.NewRedisBus(redisURL)
		if err != nil {
			log.Fatalf("🔥 Failed to connect to redis: %v", err)
		}
		bus = redisBus
		log.Println("✅ Notifications fan out through Redis")
	} else {
		bus = notifications.NewMemoryBus()
		log.Println("✅ Notifications use the in-process bus")
	}
	services.UseBus(bus)
	websocket.UseBus(bus)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.PurgeStaleQueueEntries)
	c.AddFunc("0 * * * *", jobs.ExpireStaleInvitations)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Tasmee Pairing",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.MatchmakingRoutes(app)
	routes.InvitationRoutes(app)
	routes.SessionRoutes(app)
	routes.NotificationRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigOr("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
