package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/auth"
	"github.com/iliyamo/online-bookstore/internal/config"
	"github.com/iliyamo/online-bookstore/internal/database"
	"github.com/iliyamo/online-bookstore/internal/handler"
	"github.com/iliyamo/online-bookstore/internal/middleware"
	"github.com/iliyamo/online-bookstore/internal/queue"
	"github.com/iliyamo/online-bookstore/internal/repository"
	"github.com/iliyamo/online-bookstore/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// The pool is built with retry and backoff; without a database the
	// process cannot start.
	db, err := database.OpenWithRetry(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Redis backs token revocation, the catalog cache and login rate
	// limiting.  A nil client degrades all three gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; using in-process revocation store, cache and rate limit disabled")
	}
	revoked := auth.NewRevocationStore(rdb)

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	cart := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	search := repository.NewSearchRepo(database.NewExecutor(db))

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users, revoked),
		Books:  handler.NewBookHandler(books),
		Cart:   handler.NewCartHandler(cart, books),
		Orders: handler.NewOrderHandler(orders, books, users),
		Users:  handler.NewUserHandler(users, orders, books),
		Search: handler.NewSearchHandler(search),
	}

	// Background consumer appends placed orders to logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, h, middleware.JWTAuth(cfg.JWTSecret, revoked, users), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
