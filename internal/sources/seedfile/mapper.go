package seedfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/webspot/webspot/internal/domain"
)

// Mapper converts seed entries to website records.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// MapWebsites converts a SeedConfig to website records. Entries with a
// missing name or an invalid URL are skipped; icons are derived from
// the URL when not supplied. Re-importing the same file yields the same
// record ids, so imports are idempotent.
func (m *Mapper) MapWebsites(config SeedConfig) ([]*domain.Website, error) {
	websites := make([]*domain.Website, 0, len(config))
	now := time.Now().UnixMilli()

	for _, entry := range config {
		if entry.Name == "" {
			continue
		}
		if err := domain.ValidateURL(entry.URL); err != nil {
			continue
		}

		iconURL := entry.IconURL
		if iconURL == "" {
			iconURL = domain.ResolveFavicon(entry.URL)
		}

		websites = append(websites, &domain.Website{
			ID:          seedRecordID(entry.URL),
			Name:        entry.Name,
			URL:         entry.URL,
			IconURL:     iconURL,
			Description: entry.Description,
			IsFavorite:  entry.Favorite,
			CreatedAt:   now,
		})
	}

	if len(websites) == 0 {
		return nil, fmt.Errorf("no valid websites found in seed file")
	}
	return websites, nil
}

// seedRecordID derives a stable id from the URL so the same entry maps
// to the same record across imports.
func seedRecordID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
