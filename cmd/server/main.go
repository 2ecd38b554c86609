package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Garsondee/Four-Quarters/internal/save"
	"github.com/Garsondee/Four-Quarters/internal/server"
)

func main() {
	store, closeStore := openStore()
	defer closeStore()

	srv := server.New(server.Config{Store: store})
	defer srv.Close()

	addr := ":" + strings.TrimSpace(os.Getenv("PORT"))
	if addr == ":" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("listening on http://localhost%s", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// openStore picks Postgres when DATABASE_URL is set and a directory of JSON
// files otherwise.
func openStore() (save.Store, func()) {
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := save.OpenPG(ctx, dsn)
		if err != nil {
			log.Fatalf("[SAVE] postgres: %v", err)
		}
		log.Printf("[SAVE] using postgres")
		return pg, func() { pg.Close() }
	}

	dir := strings.TrimSpace(os.Getenv("SAVE_DIR"))
	if dir == "" {
		dir = "data/saves"
	}
	fs, err := save.NewFileStore(dir)
	if err != nil {
		log.Fatalf("[SAVE] %v", err)
	}
	log.Printf("[SAVE] using %s", dir)
	return fs, func() {}
}
