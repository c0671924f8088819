package models_test

import (
	"testing"
	"time"

	"github.com/classconduct/conduct-server/internal/models"
)

func TestNextMillisIDStrictlyIncreasing(t *testing.T) {
	now := time.Now()
	prev := models.NextMillisID(now)
	for i := 0; i < 100; i++ {
		id := models.NextMillisID(now)
		if id <= prev && len(id) == len(prev) {
			t.Fatalf("ids not increasing: %s after %s", id, prev)
		}
		prev = id
	}
}

func TestParseMillisID(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	got, ok := models.ParseMillisID(models.NextMillisID(now))
	if !ok {
		t.Fatal("minted id did not parse")
	}
	// The issuer may bump forward a few milliseconds; never backwards.
	if got.Before(now) {
		t.Fatalf("parsed time %v precedes mint time %v", got, now)
	}

	if _, ok := models.ParseMillisID("not-an-id"); ok {
		t.Fatal("garbage parsed as id")
	}
	if _, ok := models.ParseMillisID(""); ok {
		t.Fatal("empty string parsed as id")
	}
}
