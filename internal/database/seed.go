package database

import (
	"fmt"
	"math/rand"
)

// Name parts for generated catalog entries. Tech-flavored combos keep the
// seeded data readable ("Wireless Keyboard 412").
var seedAdjectives = []string{
	"Wireless", "Gaming", "Mechanical", "4K", "Bluetooth",
	"USB-C", "Smart", "Ergonomic", "Portable", "Noise-Cancelling",
}

var seedNouns = []string{
	"Mouse", "Keyboard", "Monitor", "Headset", "Laptop",
	"Webcam", "Router", "SSD", "Tablet", "Speaker",
}

// Seed inserts count randomly generated products. Inventory levels span the
// full range including zero-stock entries so the classifier has interesting
// inputs to chew on: stock 0-100, sales 10-50/week, lead time 1-14 days.
func (db *DB) Seed(count int, rng *rand.Rand) (int, error) {
	inserted := 0
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %s %d",
			seedAdjectives[rng.Intn(len(seedAdjectives))],
			seedNouns[rng.Intn(len(seedNouns))],
			100+rng.Intn(801),
		)
		_, err := db.InsertProduct(name, rng.Intn(101), 10+rng.Intn(41), 1+rng.Intn(14))
		if err != nil {
			return inserted, fmt.Errorf("seeding product %d: %w", i+1, err)
		}
		inserted++
	}
	return inserted, nil
}
