// Command seed pushes the built-in emergency number directory to the remote
// Firestore collection, so devices with connectivity read the same table the
// offline fallback ships with.
//
// Usage:
//
//	go run ./cmd/seed -project my-project [-database "(default)"] \
//	  [-collection emergencyNumbers] [-api-key KEY] [-timeout 10s]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/onetapcall/emergency-resolver/internal/adapter/firestore"
	"github.com/onetapcall/emergency-resolver/internal/directory"
	"github.com/onetapcall/emergency-resolver/internal/observability"
)

func main() {
	_ = godotenv.Load()

	project := flag.String("project", os.Getenv("FIRESTORE_PROJECT"), "Firestore project ID")
	database := flag.String("database", "(default)", "Firestore database ID")
	collection := flag.String("collection", "emergencyNumbers", "target collection")
	apiKey := flag.String("api-key", os.Getenv("FIRESTORE_API_KEY"), "Firestore REST API key")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if *project == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*project, *database, *collection, *apiKey, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(project, database, collection, apiKey string, timeout time.Duration) error {
	logger := observability.NewLogger("info", "text")
	metrics := observability.NewMetrics()

	client := firestore.NewClient(project, database, collection, apiKey, timeout, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	records := directory.All()
	n, err := client.PutAll(ctx, records)
	if err != nil {
		return fmt.Errorf("wrote %d of %d records: %w", n, len(records), err)
	}

	fmt.Printf("Seeded %d country records to %s/%s\n", n, project, collection)
	return nil
}
