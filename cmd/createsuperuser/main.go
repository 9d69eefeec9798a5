// Command createsuperuser adds an admin account that can sign in to the
// console and holds every permission.
package main

import (
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/service"
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	username := flag.String("username", "", "login name of the new account")
	email := flag.String("email", "", "email address, used for single sign-on")
	password := flag.String("password", os.Getenv("BLOGADMIN_SUPERUSER_PASSWORD"), "password (defaults to $BLOGADMIN_SUPERUSER_PASSWORD)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, nil)

	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	if _, err := data.ApplyMigrations(db); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}

	users := service.NewUserService(data.NewUserRepository(db))
	user, err := users.CreateSuperuser(context.Background(), *username, *email, *password)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			for field, msgs := range verr.Fields {
				for _, msg := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			}
			os.Exit(2)
		}
		log.Fatal(err, "Failed to create superuser")
	}
	log.With(map[string]interface{}{"id": user.ID, "username": user.Username}).Info("Superuser created successfully.")
}
