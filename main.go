package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/config"
	intdb "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/db"
	router "github.com/BetanzosJefferson/routify2-alpha-sub001/internal/http"
	"github.com/BetanzosJefferson/routify2-alpha-sub001/internal/repositories"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	ensureSchemas()

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Servidor escuchando en http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("No se pudo iniciar el servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Apagando el servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Falló el apagado del servidor: %v", err)
	}

	log.Println("Servidor detenido correctamente.")
}

func ensureSchemas() {
	type schemaRepo interface {
		EnsureSchema() error
	}
	repos := map[string]schemaRepo{
		"routes":       repositories.RouteRepo{},
		"trips":        repositories.TripRepo{},
		"reservations": repositories.ReservationRepo{},
		"packages":     repositories.PackageRepo{},
		"cashbox":      repositories.CashboxRepo{},
		"fleet":        repositories.FleetRepo{},
	}
	for name, repo := range repos {
		if err := repo.EnsureSchema(); err != nil {
			log.Printf("warning: no se pudo preparar el esquema %s: %v", name, err)
		}
	}

	ensureUsersTable()
}

// La tabla de usuarios normalmente ya existe en despliegues migrados; solo se
// crea en instalaciones nuevas.
func ensureUsersTable() {
	if intconfig.DB == nil || intdb.HasTable(intconfig.DB, "users") {
		return
	}
	ddl := `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	username VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(32) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'cashier',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_username (username),
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	if _, err := intconfig.DB.Exec(ddl); err != nil {
		log.Printf("warning: no se pudo crear la tabla users: %v", err)
	}
}
