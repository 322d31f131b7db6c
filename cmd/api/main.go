package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"churnkit/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	maxConcurrency := 4
	if v := os.Getenv("MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid MAX_CONCURRENCY %q: %v", v, err)
		}
		maxConcurrency = n
	}

	app := ui.NewApp(ui.Config{Port: port, MaxConcurrency: maxConcurrency})

	log.Printf("[api] listening on :%s", port)
	if err := http.ListenAndServe(":"+port, app.Router()); err != nil {
		log.Fatal(err)
	}
}
