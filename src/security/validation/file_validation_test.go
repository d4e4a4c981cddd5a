package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tourtally/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.NoError(t, ValidateClientContentType("application/zip"))
	assert.NoError(t, ValidateClientContentType("Application/ZIP; charset=utf-8"))

	assert.Error(t, ValidateClientContentType("text/csv"))
	assert.Error(t, ValidateClientContentType(""))
}

func TestValidateSpreadsheetMagicBytes(t *testing.T) {
	good := bytes.NewReader([]byte{0x50, 0x4b, 0x03, 0x04, 0xDE, 0xAD})
	require.NoError(t, ValidateSpreadsheetMagicBytes(good))

	// The reader must be rewound for the parser.
	pos, err := good.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	bad := bytes.NewReader([]byte("дата;время;ID заказа"))
	assert.Error(t, ValidateSpreadsheetMagicBytes(bad))

	short := bytes.NewReader([]byte{0x50})
	assert.Error(t, ValidateSpreadsheetMagicBytes(short))

	assert.Error(t, ValidateSpreadsheetMagicBytes(nil))
}
