package main

import (
	"log"

	"github.com/candidatos-info/districtcharts/chartspec"
	"github.com/candidatos-info/districtcharts/config"
	"github.com/candidatos-info/districtcharts/dataset"
	"github.com/candidatos-info/districtcharts/server"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}
	registry, err := chartspec.Default()
	if err != nil {
		log.Fatal(err)
	}
	h := server.New(dataset.NewCache(cfg.DataPath, cfg.DatasetOptions()), registry, cfg.Format, cfg.CacheTTL)
	if err := h.Warm(); err != nil {
		log.Fatal(err)
	}
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if cfg.BasicAuth() {
		e.Use(middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
			return (username == cfg.UserName && password == cfg.Password), nil
		}))
	}
	h.Register(e)
	log.Println("server online at ", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
