package game

import (
	"fmt"
	"math/rand"
)

// GeneratePin returns a 6-digit numeric game pin. Uniqueness against live
// sessions is enforced by the registry, which retries on collision.
func GeneratePin() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}
