package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/store"
)

// feedItem mirrors one record of the external JSON catalog feed. Sub-fields
// that may be malformed in a feed decode leniently: bad genres/cast degrade
// to empty lists instead of failing the item.
type feedItem struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Year          looseString     `json:"year"`
	Image         string          `json:"image"`
	Description   string          `json:"description"`
	Genres        json.RawMessage `json:"genres"`
	Cast          json.RawMessage `json:"cast"`
	Director      string          `json:"director"`
	Rating        looseString     `json:"rating"`
	Duration      looseString     `json:"duration"`
	Type          string          `json:"type"`
	Industry      string          `json:"industry"`
	Episodes      json.RawMessage `json:"episodes"`
	URLs          json.RawMessage `json:"urls"`
	DownloadLinks json.RawMessage `json:"download_links"`
}

type feedWrapper struct {
	Movies []feedItem `json:"movies"`
}

// looseString accepts both JSON strings and numbers; feeds are inconsistent
// about year and rating types.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(strings.Trim(raw, `"`))
	return nil
}

// SyncCatalog loads every *.json file under dir and upserts its records
// into the content store, replacing all fields except watch_count. It
// returns the number of items synced; unreadable files and broken items are
// logged and skipped rather than aborting the sync.
func SyncCatalog(ctx context.Context, contents store.ContentStore, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, file := range files {
		items, err := loadFeedFile(file)
		if err != nil {
			log.Printf("sync: skipping %s: %v", file, err)
			continue
		}
		for _, item := range items {
			if strings.TrimSpace(item.ID) == "" {
				continue
			}
			record, genres := item.toContent()
			if err := contents.Upsert(ctx, record, genres); err != nil {
				log.Printf("sync: item %s: %v", item.ID, err)
				continue
			}
			total++
		}
	}
	return total, nil
}

func loadFeedFile(path string) ([]feedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []feedItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var wrapper feedWrapper
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Movies, nil
}

func (f feedItem) toContent() (models.ContentItem, []string) {
	contentType := strings.TrimSpace(f.Type)
	if contentType == "" {
		contentType = "movie"
	}
	industry := strings.TrimSpace(f.Industry)
	if industry == "" {
		industry = "Unknown"
	}
	return models.ContentItem{
		ID:            strings.TrimSpace(f.ID),
		Title:         f.Title,
		Year:          string(f.Year),
		Image:         f.Image,
		Description:   f.Description,
		Director:      f.Director,
		Rating:        string(f.Rating),
		Duration:      string(f.Duration),
		Type:          contentType,
		Industry:      industry,
		Cast:          jsonArrayOrEmpty(f.Cast),
		Episodes:      jsonArrayOrEmpty(f.Episodes),
		URLs:          jsonObjectOrEmpty(f.URLs),
		DownloadLinks: jsonObjectOrEmpty(f.DownloadLinks),
	}, decodeStringList(f.Genres)
}

// decodeStringList treats anything that is not a JSON string array as an
// empty list.
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return []string{}
	}
	cleaned := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		cleaned = append(cleaned, value)
	}
	return cleaned
}

func jsonArrayOrEmpty(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) && len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed
	}
	return []byte("[]")
}

func jsonObjectOrEmpty(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if json.Valid(trimmed) && len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed
	}
	return []byte("{}")
}
