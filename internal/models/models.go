package models

import "time"

type ContentItem struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Year          string    `db:"year"`
	Image         string    `db:"image"`
	Description   string    `db:"description"`
	Director      string    `db:"director"`
	Rating        string    `db:"rating"`
	Duration      string    `db:"duration"`
	Type          string    `db:"type"`
	Industry      string    `db:"industry"`
	Cast          []byte    `db:"cast_members"`
	Episodes      []byte    `db:"episodes"`
	URLs          []byte    `db:"urls"`
	DownloadLinks []byte    `db:"download_links"`
	WatchCount    int       `db:"watch_count"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	// Genres lives in the content_genres relation, not in a column.
	Genres []string `db:"-"`
}

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Username  string    `db:"username"`
	PINHash   string    `db:"pin"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type WatchlistItem struct {
	Seq       int64     `db:"seq"`
	UserID    string    `db:"user_id"`
	ContentID string    `db:"content_id"`
	AddedAt   time.Time `db:"added_at"`
}

type HistoryEntry struct {
	Seq       int64     `db:"seq"`
	UserID    string    `db:"user_id"`
	ContentID string    `db:"content_id"`
	Progress  int       `db:"progress"`
	UpdatedAt time.Time `db:"updated_at"`
}

type WatchEvent struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	ContentID string    `db:"content_id"`
	WatchTime int       `db:"watch_time"`
	Progress  int       `db:"progress"`
	WatchedAt time.Time `db:"watched_at"`
}

type WeeklyAssignment struct {
	ID          int64     `db:"id"`
	Week        string    `db:"week"`
	Day         string    `db:"day"`
	ContentID   string    `db:"content_id"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

type HeroEntry struct {
	ID        int64     `db:"id"`
	ContentID string    `db:"content_id"`
	Position  int       `db:"position"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	ProcessRSSBytes   int64     `db:"process_rss_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
