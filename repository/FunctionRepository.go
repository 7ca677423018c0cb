package repository

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateQuoteNumber produces a human-readable quote number like "Q-AB12345".
func GenerateQuoteNumber() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	prefix := string(letters[rng.Intn(len(letters))]) + string(letters[rng.Intn(len(letters))])
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("Q-%s%d", prefix, number)
}

// GenerateUniqueQuoteNumber retries until the generated number does not collide
// with an existing quote of any contractor.
func GenerateUniqueQuoteNumber(db *sql.DB) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		number := GenerateQuoteNumber()
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM quotes WHERE quote_number = $1`, number).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("failed to check quote number: %w", err)
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique quote number")
}

// GeneratePortalToken returns an unguessable token for customer portal links.
func GeneratePortalToken() string {
	return uuid.NewString()
}

// GenerateRevisionCode increments a "RV-01" style revision tag.
func GenerateRevisionCode(previousVersion string) string {
	if previousVersion == "" {
		return "RV-01"
	}

	versionNumberStr := strings.TrimPrefix(previousVersion, "RV-")

	versionNumber, err := strconv.Atoi(versionNumberStr)
	if err != nil {
		return "RV-01"
	}

	return "RV-" + fmt.Sprintf("%02d", versionNumber+1)
}
