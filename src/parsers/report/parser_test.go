package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRow(t *testing.T) {
	cases := []struct {
		name     string
		row      []string
		expected rowKind
	}{
		{"blank", []string{"", "", ""}, rowBlank},
		{"empty slice", nil, rowBlank},
		{"ticket totals footer", []string{"Всего реализовано билетов: 3069 на сумму 7556750.0 RUB"}, rowFooterTickets},
		{"commission footer", []string{`Суммарная комиссия ООО "СПУТНИК" за период: 1603210.0 RUB`}, rowFooterCommission},
		{"terminal footer", []string{"Итого к перечислению: 5953540.0 RUB"}, rowFooterTerminal},
		{"tour commission footer", []string{"Комиссия за все заказы данной экскурсии в указанном периоде:", "", "", "22580.0"}, rowTourCommission},
		{"tour title", []string{"Обзорная экскурсия по городу"}, rowNewTour},
		{"tour title with data column", []string{"Вечерняя прогулка", "какой-то текст"}, rowNewTour},
		{"header by first two cells", []string{"дата", "время", "ID заказа"}, rowHeader},
		{"header by guide columns", []string{"", "гиду", "спутнику"}, rowHeader},
		{"header by id phrase", []string{"ID заказа", "дата"}, rowHeader},
		{"order row literal date", []string{"21.03.2024", "10:00", "123456"}, rowOrder},
		{"order row serial date", []string{"45372", "10:00", "123456"}, rowOrder},
		{"continuation row", []string{"", "VIP", "500", "2"}, rowContinuation},
		{"short junk first cell", []string{"ок"}, rowUnrecognized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyRow(tc.row))
		})
	}
}

// A genuine tour title equal to a reserved header token is ambiguous in the
// source format; the header rule wins, and that priority is pinned here as-is
// rather than asserting any stronger correctness.
func TestClassifyRowAmbiguousTitlePriority(t *testing.T) {
	assert.Equal(t, rowHeader, classifyRow([]string{"Прогулка", "время"}))
}

func TestParseGridInsufficientData(t *testing.T) {
	p := NewParser()
	_, err := p.ParseGrid([][]string{{"дата"}, {"время"}}, "batch-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient data")
}

func testGrid() [][]string {
	return [][]string{
		{"Обзорная экскурсия по городу"},
		{"дата", "время", "ID заказа", "Участник", "Категория", "Цена", "Кол-во", "Оплачено", "", "Комиссия %", "Гиду", "Спутнику", "Комментарий"},
		{"21.03.2024", "10:00", "123456", "Иванов Иван", "Взрослый", "500", "2", "1000", "", "10", "800", "200", "звонить заранее"},
		{"", "VIP", "500", "2"},
		{"", "гиду", "спутнику"},
		{"Комиссия за все заказы данной экскурсии в указанном периоде:", "", "", "220.5"},
		{"Всего реализовано билетов: 3069 на сумму 7556750.0 RUB"},
		{`Суммарная комиссия ООО "СПУТНИК" за период: 1603210.0 RUB`},
		{"Итого к перечислению: 5953540.0 RUB"},
		{"22.03.2024", "11:00", "999999", "После итога", "Детский", "300", "1", "300"},
	}
}

func TestParseGridEmitsOrderAndContinuation(t *testing.T) {
	p := NewParser()
	result, err := p.ParseGrid(testGrid(), "batch-1")
	require.NoError(t, err)
	require.Len(t, result.Records, 2, "the row after the terminal footer must be ignored")

	order := result.Records[0]
	assert.Equal(t, "batch-1", order.UploadID)
	assert.Equal(t, "Обзорная экскурсия по городу", order.TourName)
	require.NotNil(t, order.Date)
	assert.Equal(t, "2024-03-21", *order.Date)
	require.NotNil(t, order.OrderID)
	assert.Equal(t, "123456", *order.OrderID)
	require.NotNil(t, order.TicketCategory)
	assert.Equal(t, "Взрослый", *order.TicketCategory)
	require.NotNil(t, order.Quantity)
	assert.Equal(t, 2, *order.Quantity)
	require.NotNil(t, order.PaidAmount)
	assert.Equal(t, 1000.0, *order.PaidAmount)
	require.NotNil(t, order.CommissionPercent)
	assert.Equal(t, 10.0, *order.CommissionPercent)
	require.NotNil(t, order.GuideAmount)
	assert.Equal(t, 800.0, *order.GuideAmount)
	require.NotNil(t, order.PlatformAmount)
	assert.Equal(t, 200.0, *order.PlatformAmount)
	require.NotNil(t, order.Comment)
	assert.Equal(t, "звонить заранее", *order.Comment)
}

func TestParseGridContinuationInheritance(t *testing.T) {
	p := NewParser()
	result, err := p.ParseGrid(testGrid(), "batch-1")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	order, cont := result.Records[0], result.Records[1]
	require.NotNil(t, cont.TicketCategory)
	assert.Equal(t, "VIP", *cont.TicketCategory)
	assert.Equal(t, order.OrderID, cont.OrderID)
	assert.Equal(t, order.Date, cont.Date)
	assert.Equal(t, order.ParticipantName, cont.ParticipantName)
	assert.Equal(t, order.TourName, cont.TourName)
	assert.Equal(t, order.CommissionPercent, cont.CommissionPercent)
	require.NotNil(t, cont.TicketPrice)
	assert.Equal(t, 500.0, *cont.TicketPrice)
	require.NotNil(t, cont.Quantity)
	assert.Equal(t, 2, *cont.Quantity)

	// The source never restates money on extra ticket lines.
	assert.Nil(t, cont.PaidAmount)
	assert.Nil(t, cont.GuideAmount)
	assert.Nil(t, cont.PlatformAmount)
}

func TestParseGridSummaryFromFooters(t *testing.T) {
	p := NewParser()
	result, err := p.ParseGrid(testGrid(), "batch-1")
	require.NoError(t, err)

	assert.Equal(t, 3069, result.Summary.TotalTickets)
	assert.Equal(t, 7556750.0, result.Summary.TotalAmount)
	assert.Equal(t, 1603210.0, result.Summary.TotalCommission)
	assert.Equal(t, 1, result.Summary.Tours)
	assert.Equal(t, 220.5, result.TourCommissions["Обзорная экскурсия по городу"])
}

func TestParseGridCapturesHeaderRow(t *testing.T) {
	p := NewParser()
	result, err := p.ParseGrid(testGrid(), "batch-1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Headers)
	assert.Equal(t, "дата", result.Headers[0])
	assert.Equal(t, "время", result.Headers[1])
}

func TestParseGridFooterSurvivesMalformedRows(t *testing.T) {
	grid := [][]string{
		{"???"},
		{"мусор", "id"},
		{"ещё мусор", "дата что-то"},
		{"Всего реализовано билетов: 3069 на сумму 7556750.0 RUB"},
		{"Итого к перечислению: 0 RUB"},
	}
	p := NewParser()
	result, err := p.ParseGrid(grid, "batch-2")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 3069, result.Summary.TotalTickets)
	assert.Equal(t, 7556750.0, result.Summary.TotalAmount)
}

func TestParseGridOrderRowWithoutCategoryOrPaymentIsNoise(t *testing.T) {
	grid := [][]string{
		{"Ночная экскурсия"},
		{"дата", "время"},
		{"21.03.2024", "10:00", "123456", "Иванов"},
		{"21.03.2024", "11:00", "123457", "Петров", "Взрослый", "500", "1", "500"},
		{"", "", ""},
	}
	p := NewParser()
	result, err := p.ParseGrid(grid, "batch-3")
	require.NoError(t, err)
	require.Len(t, result.Records, 1, "a row with neither category nor payment is skipped")
	assert.Equal(t, "123457", *result.Records[0].OrderID)
}

func TestParseGridDefaultTourName(t *testing.T) {
	grid := [][]string{
		{"дата", "время"},
		{"21.03.2024", "10:00", "123456", "Иванов", "Взрослый", "500", "1", "500"},
		{"", "", ""},
		{"", "", ""},
		{"", "", ""},
	}
	p := NewParser()
	result, err := p.ParseGrid(grid, "batch-4")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, UnspecifiedTour, result.Records[0].TourName)
}

func TestParseGridContinuationWithoutPrecedingOrderIsDropped(t *testing.T) {
	grid := [][]string{
		{"дата", "время"},
		{"", "VIP", "500", "2"},
		{"", "", ""},
		{"", "", ""},
		{"", "", ""},
	}
	p := NewParser()
	result, err := p.ParseGrid(grid, "batch-5")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}
