package postgres

import (
	"context"

	"chadcinema-backend-go/internal/models"
)

func (s *Store) InsertSample(ctx context.Context, sample models.ServerMetricSample) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO server_metric_samples (
  id, captured_at, process_rss_bytes, system_memory_total_bytes, system_memory_used_bytes,
  disk_total_bytes, disk_used_bytes, process_cpu_load, system_cpu_load
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, sample.ID, sample.CapturedAt, sample.ProcessRSSBytes, sample.SystemMemoryTotal,
		sample.SystemMemoryUsed, sample.DiskTotalBytes, sample.DiskUsedBytes,
		sample.ProcessCpuLoad, sample.SystemCpuLoad)
	return err
}

func (s *Store) LatestSamples(ctx context.Context, limit int) ([]models.ServerMetricSample, error) {
	rows := []models.ServerMetricSample{}
	err := s.db.SelectContext(ctx, &rows, `
SELECT id, captured_at, process_rss_bytes, system_memory_total_bytes, system_memory_used_bytes,
       disk_total_bytes, disk_used_bytes, process_cpu_load, system_cpu_load
FROM server_metric_samples
ORDER BY captured_at DESC
LIMIT $1
`, limit)
	return rows, err
}
