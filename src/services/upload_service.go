package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/tourtally/backend/src/database"
	"github.com/username/tourtally/backend/src/logger"
	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/parsers"
	"github.com/username/tourtally/backend/src/processors"
)

const (
	// Aggregate cache, keyed by upload id ("all" for the whole store).
	ckRecordStats = "agg_record_stats_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type uploadServiceImpl struct {
	reportParser   parsers.Parser
	textParser     parsers.Parser
	statsProcessor processors.StatsProcessor
	statsCache     *cache.Cache
}

func NewUploadService(
	reportParser parsers.Parser,
	textParser parsers.Parser,
	statsProcessor processors.StatsProcessor,
	statsCache *cache.Cache,
) UploadService {
	return &uploadServiceImpl{
		reportParser:   reportParser,
		textParser:     textParser,
		statsProcessor: statsProcessor,
		statsCache:     statsCache,
	}
}

// ProcessReportUpload runs the spreadsheet parser over one uploaded file and
// commits the batch. Records reach the store only after the parser returned in
// full; a parse failure commits nothing.
func (s *uploadServiceImpl) ProcessReportUpload(fileReader io.Reader) (*UploadResult, error) {
	startTime := time.Now()
	uploadID := uuid.NewString()
	logger.L.Info("ProcessReportUpload START", "uploadID", uploadID)

	parsed, err := s.reportParser.Parse(fileReader, uploadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	if len(parsed.Records) > 0 {
		if err := database.InsertRecords(parsed.Records); err != nil {
			return nil, fmt.Errorf("error storing records for upload %s: %w", uploadID, err)
		}
	}
	s.invalidateStatsCache()

	logger.L.Info("ProcessReportUpload END", "uploadID", uploadID,
		"recordCount", len(parsed.Records), "duration", time.Since(startTime))

	summary := parsed.Summary
	return &UploadResult{
		Success:     true,
		UploadID:    uploadID,
		RecordCount: len(parsed.Records),
		Headers:     parsed.Headers,
		Summary:     &summary,
		Message:     fmt.Sprintf("Загружено %d записей из %d экскурсий", len(parsed.Records), summary.Tours),
	}, nil
}

// ProcessTextUpload runs the pasted-text parser and commits the batch. A text
// blob in which no order chunk survives decoding is rejected outright.
func (s *uploadServiceImpl) ProcessTextUpload(text string) (*UploadResult, error) {
	startTime := time.Now()
	uploadID := uuid.NewString()
	logger.L.Info("ProcessTextUpload START", "uploadID", uploadID)

	parsed, err := s.textParser.Parse(strings.NewReader(text), uploadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(parsed.Records) == 0 {
		return nil, ErrNoRecords
	}

	if err := database.InsertRecords(parsed.Records); err != nil {
		return nil, fmt.Errorf("error storing records for upload %s: %w", uploadID, err)
	}
	s.invalidateStatsCache()

	logger.L.Info("ProcessTextUpload END", "uploadID", uploadID,
		"recordCount", len(parsed.Records), "duration", time.Since(startTime))

	summary := parsed.Summary
	return &UploadResult{
		Success:     true,
		UploadID:    uploadID,
		RecordCount: len(parsed.Records),
		Summary:     &summary,
		Message:     fmt.Sprintf("Загружено %d записей из %d экскурсий", len(parsed.Records), summary.Tours),
	}, nil
}

// GetRecords fetches records and computes their statistics. Filtered and
// unfiltered reads go through the same aggregator, so the numbers agree no
// matter which path produced the set; only the unfiltered aggregate is worth
// caching.
func (s *uploadServiceImpl) GetRecords(filter models.RecordsFilter) (*RecordsResult, error) {
	if filter.HasFilters() {
		records, err := database.GetFilteredRecords(filter)
		if err != nil {
			return nil, err
		}
		return &RecordsResult{
			Records:    emptyIfNil(records),
			Statistics: s.statsProcessor.Calculate(records),
		}, nil
	}

	records, err := database.GetAllRecords(filter.UploadID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(ckRecordStats, cacheScope(filter.UploadID))
	var stats *models.Statistics
	if cached, found := s.statsCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for record statistics", "key", cacheKey)
		stats = cached.(*models.Statistics)
	} else {
		stats = s.statsProcessor.Calculate(records)
		s.statsCache.Set(cacheKey, stats, DefaultCacheExpiration)
	}

	return &RecordsResult{Records: emptyIfNil(records), Statistics: stats}, nil
}

func (s *uploadServiceImpl) GetUploads() ([]models.UploadInfo, error) {
	return database.GetUploads()
}

func (s *uploadServiceImpl) DeleteUpload(uploadID string) error {
	if err := database.DeleteUpload(uploadID); err != nil {
		return err
	}
	s.invalidateStatsCache()
	logger.L.Info("Deleted upload batch", "uploadID", uploadID)
	return nil
}

func (s *uploadServiceImpl) DeleteAllRecords() error {
	if err := database.DeleteAllRecords(); err != nil {
		return err
	}
	s.invalidateStatsCache()
	logger.L.Info("Deleted all records")
	return nil
}

// invalidateStatsCache drops every cached aggregate. Batch ids are dynamic, so
// flushing is the correct (and cheap) strategy; the next read recomputes.
func (s *uploadServiceImpl) invalidateStatsCache() {
	s.statsCache.Flush()
}

func cacheScope(uploadID string) string {
	if uploadID == "" {
		return "all"
	}
	return uploadID
}

func emptyIfNil(records []models.SaleRecord) []models.SaleRecord {
	if records == nil {
		return []models.SaleRecord{}
	}
	return records
}
