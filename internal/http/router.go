package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	h "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/handlers"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes-debug", h.RouteTable)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Users (solo administración)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(secret), middleware.RequireRoles("admin"))
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		// Rutas
		routes := api.Group("/routes")
		routes.GET("", h.GetRoutes)
		routes.GET("/:id", h.GetRouteByID)
		routes.GET("/:id/segments", h.GetRouteSegments)
		routesAdmin := routes.Group("")
		routesAdmin.Use(middleware.RequireAuth(secret), middleware.RequireRoles("admin", "manager"))
		routesAdmin.POST("", h.CreateRoute)
		routesAdmin.PUT("/:id", h.UpdateRoute)
		routesAdmin.DELETE("/:id", h.DeleteRoute)

		// Viajes
		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/:id", h.GetTripByID)
		trips.GET("/:id/subtrips", h.GetSubTrips)
		tripsAdmin := trips.Group("")
		tripsAdmin.Use(middleware.RequireAuth(secret), middleware.RequireRoles("admin", "manager"))
		tripsAdmin.POST("", h.PublishTrip)
		tripsAdmin.PUT("/:id/visibility", h.SetTripVisibility)
		tripsAdmin.PUT("/:id/prices", h.UpdateTripCityPairPrice)
		tripsAdmin.POST("/:id/seats", h.AdjustTripSeats)
		tripsAdmin.DELETE("/:id", h.DeleteTrip)

		// Reservaciones (cualquier usuario autenticado: cajeros venden)
		reservations := api.Group("/reservations")
		reservations.Use(middleware.RequireAuth(secret))
		reservations.GET("", h.GetReservations)
		reservations.GET("/:id", h.GetReservationByID)
		reservations.POST("", h.CreateReservation)
		reservations.PUT("/:id/seats", h.ChangeReservationSeats)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.GET("/:id/boleto", h.DownloadBoleto)

		// Paquetería
		packages := api.Group("/packages")
		packages.Use(middleware.RequireAuth(secret))
		packages.GET("", h.GetPackages)
		packages.GET("/:id", h.GetPackageByID)
		packages.POST("", h.CreatePackage)
		packages.POST("/:id/cancel", h.CancelPackage)
		packages.POST("/:id/deliver", h.DeliverPackage)
		packages.GET("/:id/guia", h.DownloadGuia)

		// Caja
		cashbox := api.Group("/cashbox")
		cashbox.Use(middleware.RequireAuth(secret))
		cashbox.GET("/balance", h.GetCashboxBalance)
		cashbox.GET("/entries", h.GetCashboxEntries)
		cashbox.GET("/cutoffs", h.GetCashboxCutoffs)
		cashbox.POST("/expenses", h.RecordExpense)
		cashbox.POST("/cutoff", h.CashboxCutoff)

		// Flota
		vehicles := api.Group("/vehicles")
		vehicles.Use(middleware.RequireAuth(secret), middleware.RequireRoles("admin", "manager"))
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)

		drivers := api.Group("/drivers")
		drivers.Use(middleware.RequireAuth(secret), middleware.RequireRoles("admin", "manager"))
		drivers.GET("", h.GetDrivers)
		drivers.GET("/:id", h.GetDriverByID)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)
	}

	h.SetRouter(r)
	return r
}
