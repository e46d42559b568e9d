package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/tudduke/ministry-platform/internal/config"
	"github.com/tudduke/ministry-platform/internal/database"
	"github.com/tudduke/ministry-platform/internal/handler"
	"github.com/tudduke/ministry-platform/internal/middleware"
	"github.com/tudduke/ministry-platform/internal/moderation"
	"github.com/tudduke/ministry-platform/internal/queue"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/router"
	"github.com/tudduke/ministry-platform/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	pub := service.NewPublisher(cfg.AMQPURL)
	if pub == nil {
		log.Printf("no broker URL configured; event publishing disabled")
	} else {
		go func() {
			if err := queue.StartNotifyConsumer(cfg.AMQPURL); err != nil {
				log.Printf("notify-consumer: %v", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sermons := repository.NewSermonRepo(db)
	resources := repository.NewResourceRepo(db)
	events := repository.NewEventRepo(db)
	lessons := repository.NewLessonRepo(db)
	comments := repository.NewCommentRepo(db)
	classes := repository.NewClassRepo(db)
	engagement := repository.NewEngagementRepo(db)
	kids := repository.NewKidsRepo(db)
	donations := repository.NewDonationRepo(db)
	modEngine := moderation.NewEngine(repository.NewModerationStore(db))

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Sermons:    handler.NewSermonHandler(sermons, pub, cfg.AutoApproveAdmin),
		Resources:  handler.NewResourceHandler(resources, pub, cfg.AutoApproveAdmin),
		Events:     handler.NewEventHandler(events, classes, pub, cfg.AutoApproveAdmin),
		Lessons:    handler.NewLessonHandler(lessons),
		Comments:   handler.NewCommentHandler(comments, sermons),
		Engagement: handler.NewEngagementHandler(engagement, sermons, resources, lessons, pub),
		Kids:       handler.NewKidsHandler(kids),
		Browse:     handler.NewBrowseHandler(sermons, resources, events, lessons, kids),
		Admin:      handler.NewAdminHandler(cfg, users, sermons, resources, events, classes, engagement, modEngine, pub),
		Donations:  handler.NewDonationHandler(donations),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
