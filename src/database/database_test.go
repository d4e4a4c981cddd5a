package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tourtally/backend/src/models"
	"github.com/username/tourtally/backend/src/utils"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() {
		DB.Close()
		DB = nil
	})
}

func testBatch(uploadID string) []models.SaleRecord {
	return []models.SaleRecord{
		{
			UploadID:        uploadID,
			TourName:        "Обзорная экскурсия",
			Date:            utils.StringPtr("2024-03-21"),
			Time:            utils.StringPtr("10:00"),
			OrderID:         utils.StringPtr("123456"),
			ParticipantName: utils.StringPtr("Иванов Иван"),
			TicketCategory:  utils.StringPtr("Взрослый"),
			TicketPrice:     utils.FloatPtr(500),
			Quantity:        utils.IntPtr(2),
			PaidAmount:      utils.FloatPtr(1000),
			GuideAmount:     utils.FloatPtr(800),
			PlatformAmount:  utils.FloatPtr(200),
		},
		{
			UploadID:       uploadID,
			TourName:       "Ночная экскурсия",
			Date:           utils.StringPtr("2024-03-22"),
			OrderID:        utils.StringPtr("789012"),
			TicketCategory: utils.StringPtr("Детский"),
			TicketPrice:    utils.FloatPtr(300),
			Quantity:       utils.IntPtr(1),
		},
	}
}

func TestInsertAndGetAllRecords(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, InsertRecords(testBatch("batch-1")))

	records, err := GetAllRecords("")
	require.NoError(t, err)
	require.Len(t, records, 2)

	byOrder := map[string]models.SaleRecord{}
	for _, r := range records {
		require.NotNil(t, r.OrderID)
		byOrder[*r.OrderID] = r
	}

	full := byOrder["123456"]
	assert.Equal(t, "batch-1", full.UploadID)
	assert.Equal(t, "Обзорная экскурсия", full.TourName)
	require.NotNil(t, full.Date)
	assert.Equal(t, "2024-03-21", *full.Date)
	require.NotNil(t, full.PaidAmount)
	assert.Equal(t, 1000.0, *full.PaidAmount)
	assert.NotEmpty(t, full.CreatedAt)

	// Columns never written come back as nil pointers, not zero values.
	sparse := byOrder["789012"]
	assert.Nil(t, sparse.Time)
	assert.Nil(t, sparse.ParticipantName)
	assert.Nil(t, sparse.PaidAmount)
	assert.Nil(t, sparse.GuideAmount)
	assert.Nil(t, sparse.Comment)
}

func TestGetAllRecordsByUploadID(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, InsertRecords(testBatch("batch-1")))
	require.NoError(t, InsertRecords(testBatch("batch-2")))

	records, err := GetAllRecords("batch-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "batch-1", r.UploadID)
	}
}

func TestGetFilteredRecords(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InsertRecords(testBatch("batch-1")))

	byDate, err := GetFilteredRecords(models.RecordsFilter{DateFrom: "2024-03-22"})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "789012", *byDate[0].OrderID)

	byTour, err := GetFilteredRecords(models.RecordsFilter{TourName: "Ночная"})
	require.NoError(t, err)
	require.Len(t, byTour, 1)
	assert.Equal(t, "Ночная экскурсия", byTour[0].TourName)

	bySearch, err := GetFilteredRecords(models.RecordsFilter{Search: "Иванов"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "123456", *bySearch[0].OrderID)

	none, err := GetFilteredRecords(models.RecordsFilter{Search: "нет такого"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetUploads(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InsertRecords(testBatch("batch-1")))
	require.NoError(t, InsertRecords(testBatch("batch-2")))

	uploads, err := GetUploads()
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	for _, u := range uploads {
		assert.Equal(t, 2, u.RecordCount)
		assert.NotEmpty(t, u.CreatedAt)
	}
}

func TestDeleteUpload(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InsertRecords(testBatch("batch-1")))
	require.NoError(t, InsertRecords(testBatch("batch-2")))

	require.NoError(t, DeleteUpload("batch-1"))

	records, err := GetAllRecords("")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "batch-2", r.UploadID)
	}
}

func TestDeleteAllRecords(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InsertRecords(testBatch("batch-1")))

	require.NoError(t, DeleteAllRecords())

	records, err := GetAllRecords("")
	require.NoError(t, err)
	assert.Empty(t, records)

	uploads, err := GetUploads()
	require.NoError(t, err)
	assert.Empty(t, uploads)
}
