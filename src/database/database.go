package database

import (
	"database/sql"
	"fmt"
	stdlog "log"
	"strings"

	"github.com/username/tourtally/backend/src/logger"
	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/utils"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		upload_id TEXT NOT NULL,
		tour_name TEXT NOT NULL,
		date TEXT,
		time TEXT,
		order_id TEXT,
		participant_name TEXT,
		ticket_category TEXT,
		ticket_price REAL,
		quantity INTEGER,
		paid_amount REAL,
		commission_percent REAL,
		guide_amount REAL,
		platform_amount REAL,
		comment TEXT,
		created_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_upload_id ON records(upload_id);
	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_order_id ON records(order_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

const recordColumns = `id, upload_id, tour_name, date, time, order_id, participant_name,
	ticket_category, ticket_price, quantity, paid_amount,
	commission_percent, guide_amount, platform_amount, comment, created_at`

// InsertRecords stores one ingestion batch atomically: either every record of
// the batch lands or none do.
func InsertRecords(records []models.SaleRecord) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO records (
		upload_id, tour_name, date, time, order_id, participant_name,
		ticket_category, ticket_price, quantity, paid_amount,
		commission_percent, guide_amount, platform_amount, comment, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	createdAt := utils.MoscowTimestamp()
	for _, r := range records {
		_, err := stmt.Exec(r.UploadID, r.TourName, r.Date, r.Time, r.OrderID,
			r.ParticipantName, r.TicketCategory, r.TicketPrice, r.Quantity,
			r.PaidAmount, r.CommissionPercent, r.GuideAmount, r.PlatformAmount,
			r.Comment, createdAt)
		if err != nil {
			return fmt.Errorf("error inserting record (uploadID: %s): %w", r.UploadID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing records: %w", err)
	}
	return nil
}

// GetAllRecords returns every stored record, or only one batch when uploadID
// is set.
func GetAllRecords(uploadID string) ([]models.SaleRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY created_at DESC, id DESC`
	args := []any{}
	if uploadID != "" {
		query = `SELECT ` + recordColumns + ` FROM records WHERE upload_id = ? ORDER BY date DESC, id DESC`
		args = append(args, uploadID)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetFilteredRecords returns records narrowed by date range, tour-name
// substring and free-text search.
func GetFilteredRecords(filter models.RecordsFilter) ([]models.SaleRecord, error) {
	var conditions []string
	var params []any

	if filter.UploadID != "" {
		conditions = append(conditions, "upload_id = ?")
		params = append(params, filter.UploadID)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, "date >= ?")
		params = append(params, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, "date <= ?")
		params = append(params, filter.DateTo)
	}
	if filter.TourName != "" {
		conditions = append(conditions, "tour_name LIKE ?")
		params = append(params, "%"+filter.TourName+"%")
	}
	if filter.Search != "" {
		conditions = append(conditions, "(tour_name LIKE ? OR participant_name LIKE ? OR order_id LIKE ?)")
		pattern := "%" + filter.Search + "%"
		params = append(params, pattern, pattern, pattern)
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, time DESC"

	rows, err := DB.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("error querying filtered records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetUploads lists ingestion batches, newest first.
func GetUploads() ([]models.UploadInfo, error) {
	rows, err := DB.Query(`
		SELECT upload_id, COUNT(*) AS record_count, MIN(created_at) AS created_at
		FROM records
		GROUP BY upload_id
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying uploads: %w", err)
	}
	defer rows.Close()

	var uploads []models.UploadInfo
	for rows.Next() {
		var u models.UploadInfo
		if err := rows.Scan(&u.UploadID, &u.RecordCount, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning upload row: %w", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over upload rows: %w", err)
	}
	return uploads, nil
}

// DeleteUpload removes one batch wholesale. Records are never deleted
// individually.
func DeleteUpload(uploadID string) error {
	_, err := DB.Exec(`DELETE FROM records WHERE upload_id = ?`, uploadID)
	if err != nil {
		return fmt.Errorf("error deleting upload %s: %w", uploadID, err)
	}
	return nil
}

// DeleteAllRecords wipes the store.
func DeleteAllRecords() error {
	_, err := DB.Exec(`DELETE FROM records`)
	if err != nil {
		return fmt.Errorf("error deleting records: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]models.SaleRecord, error) {
	var records []models.SaleRecord
	for rows.Next() {
		var r models.SaleRecord
		scanErr := rows.Scan(&r.ID, &r.UploadID, &r.TourName, &r.Date, &r.Time,
			&r.OrderID, &r.ParticipantName, &r.TicketCategory, &r.TicketPrice,
			&r.Quantity, &r.PaidAmount, &r.CommissionPercent, &r.GuideAmount,
			&r.PlatformAmount, &r.Comment, &r.CreatedAt)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning record row: %w", scanErr)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over record rows: %w", err)
	}
	return records, nil
}
