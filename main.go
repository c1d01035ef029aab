package main

import (
	"log"
	"net/http"
	"os"

	"storefront/app/cmd"
	"storefront/app/configs"
	"storefront/app/routes"
	"gorm.io/gorm"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if env.PLATFORM_API_URL == "" {
		log.Fatalf("PLATFORM_API_URL is empty! Please check your .env file.")
	}
	if env.PLATFORM_APP_ID == "" {
		log.Fatalf("PLATFORM_APP_ID is empty! Please check your .env file.")
	}

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatal("Session keys failed to load:", err)
	}

	var db *gorm.DB
	if env.DBHost != "" {
		db, err = configs.OpenConnection()
		if err != nil {
			log.Fatal("DB connection failed:", err)
		}
		log.Println("✅ Database connected.")
	} else {
		log.Println("No DB configured, falling back to in-memory key-value store.")
	}

	router := routes.NewRouter(db, keys)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
