package services

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReference builds a fallback idempotency token for callers that
// do not supply their own.
func GenerateReference(prefix string) string {
	suffix := fmt.Sprintf("%04d", rand.Intn(10000))
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102150405"), suffix)
}
