package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nabenabe-code/kintai/config"
	"github.com/nabenabe-code/kintai/database"
	"github.com/nabenabe-code/kintai/routes"
)

func main() {
	cfg := config.Load()

	// DB が立ち上がっていなければここで落とす（early fail）
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
