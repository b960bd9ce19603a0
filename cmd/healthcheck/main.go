package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridbase/gridbase/internal/config"
	"github.com/gridbase/gridbase/internal/database"
	"github.com/gridbase/gridbase/internal/services"
)

// Container healthcheck: check the database and authorizer, print the
// result, exit non-zero when unhealthy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db)

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
