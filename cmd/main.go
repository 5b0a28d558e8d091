package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/cache"
	"recordstore/config"
	"recordstore/controllers"
	"recordstore/database"
	"recordstore/repository"
	"recordstore/routes"
	"recordstore/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	redisClient := cache.NewRedisClient(cfg.RedisAddr)
	if err := redisClient.Ping(ctx); err != nil {
		// Degraded but serviceable: every read falls through to Mongo.
		logger.Warn("redis unavailable at startup, serving uncached", zap.Error(err))
	}
	defer redisClient.Close()

	accessor := cache.NewAccessor(redisClient, logger)

	cartRepo := repository.NewCartRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	feeRepo := repository.NewDeliveryFeeRepository(db)
	shipperRepo := repository.NewShipperRepository(db)

	if err := cartRepo.CreateIndexes(ctx); err != nil {
		logger.Warn("failed to create cart indexes", zap.Error(err))
	}

	catalogSvc := services.NewCatalogService(catalogRepo, accessor, logger, cfg.CatalogTTL)
	cartSvc := services.NewCartService(cartRepo, catalogRepo, accessor, logger, cfg.CartTTL)
	feeSvc := services.NewDeliveryFeeService(feeRepo, services.VNAddressInterpreter{}, logger)
	geocoder := services.NewNominatimClient(cfg.NominatimURL, cfg.GeocodeTimeout)
	etaSvc := services.NewETAService(geocoder, logger)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, catalogRepo, feeSvc, etaSvc, shipperRepo, accessor, logger)
	progressor := services.NewProgressor(orderSvc, logger)
	defer progressor.Stop()

	ct := routes.Controllers{
		Cart:     controllers.NewCartController(cartSvc, logger),
		Order:    controllers.NewOrderController(orderSvc, progressor, logger),
		Disc:     controllers.NewDiscController(catalogSvc, logger),
		Delivery: controllers.NewDeliveryController(feeSvc, logger),
	}

	r := gin.Default()
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, cfg.JWTSecret, ct)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
