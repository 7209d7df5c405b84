// mkfixture seeds a source collection with synthetic location documents.
// Field types are deliberately mixed (numbers, numeric strings, native dates,
// date strings) so a run exercises every coercion path.
// Usage: go run ./cmd/mkfixture --uri mongodb://localhost:27017 --db app --collection Location --docs 1200
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/gyeh/locsync/internal/source"
)

func main() {
	uri := flag.String("uri", "mongodb://localhost:27017", "document store URI")
	database := flag.String("db", "locsync", "database name")
	collection := flag.String("collection", "Location", "collection to seed")
	docs := flag.Int("docs", 1200, "documents to insert")
	users := flag.Int("users", 20, "distinct user ids")
	bad := flag.Int("bad", 0, "documents with a non-numeric installment number")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *docs <= 0 || *users <= 0 {
		fmt.Fprintln(os.Stderr, "--docs and --users must be positive")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := source.NewMongoStore(ctx, *uri, *database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	userIDs := make([]string, *users)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
	}

	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	batch := make([]any, 0, *docs)
	for i := 0; i < *docs; i++ {
		batch = append(batch, makeDoc(rng, i, userIDs, start, i < *bad))
	}

	n, err := store.InsertMany(ctx, *collection, batch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d documents into %s.%s (%d users, %d bad)\n", n, *database, *collection, *users, *bad)
}

func makeDoc(rng *rand.Rand, i int, userIDs []string, start time.Time, bad bool) bson.D {
	lat := 24.7 + rng.Float64()
	lng := 46.6 + rng.Float64()
	ts := start.Add(time.Duration(i) * 7 * time.Minute)

	// Alternate representations across documents.
	var latVal, lngVal, when, inst any
	switch i % 4 {
	case 0:
		latVal, lngVal = lat, lng
		when = ts
		inst = int32(i%12 + 1)
	case 1:
		latVal, lngVal = strconv.FormatFloat(lat, 'f', 6, 64), strconv.FormatFloat(lng, 'f', 6, 64)
		when = ts.Format(time.RFC3339)
		inst = strconv.Itoa(i%12 + 1)
	case 2:
		latVal, lngVal = lat, strconv.FormatFloat(lng, 'f', 6, 64)
		when = ts.UnixMilli()
		inst = float64(i%12 + 1)
	default:
		latVal, lngVal = strconv.FormatFloat(lat, 'f', 6, 64), lng
		when = ts.Format("Mon Jan 02 2006 15:04:05 GMT-0700") + " (Coordinated Universal Time)"
		inst = int64(i%12 + 1)
	}
	if bad {
		inst = "n/a"
	}

	latKey := "Lattitude"
	if i%10 == 9 {
		latKey = "Latitude"
	}

	return bson.D{
		{Key: "UserId", Value: userIDs[rng.IntN(len(userIDs))]},
		{Key: latKey, Value: latVal},
		{Key: "Longitude", Value: lngVal},
		{Key: "Address", Value: fmt.Sprintf("%d King Fahd Rd", rng.IntN(900)+100)},
		{Key: "Type", Value: []string{"checkin", "visit", "payment"}[i%3]},
		{Key: "DateTime", Value: when},
		{Key: "Code", Value: fmt.Sprintf("C-%05d", i)},
		{Key: "Installmentno", Value: inst},
	}
}
