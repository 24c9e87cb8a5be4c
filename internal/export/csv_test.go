package export

import (
	"strings"
	"testing"
	"time"

	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCSVOutput(t *testing.T) {
	records := []recorddomain.Record{
		{
			ID:        1234567890,
			Type:      recorddomain.TypeResidential,
			Amount:    decimal.NewFromInt(7),
			Date:      "2026-03-15",
			CreatedAt: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        1234567891,
			Type:      recorddomain.TypeService,
			Amount:    decimal.RequireFromString("12.5"),
			Date:      "2026-03-16",
			CreatedAt: time.Date(2026, 3, 16, 9, 5, 0, 0, time.UTC),
		},
	}

	payload, err := CSV(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Fecha,Hora,Tipo,Monto,ID", lines[0])
	require.Equal(t, "15/03/2026,14:30,Residencial,7,1234567890", lines[1])
	require.Equal(t, "16/03/2026,09:05,Servicio,12.5,1234567891", lines[2])
}

func TestCSVEmptyListHasHeaderOnly(t *testing.T) {
	payload, err := CSV(nil)
	require.NoError(t, err)
	require.Equal(t, "Fecha,Hora,Tipo,Monto,ID\n", string(payload))
}

func TestCSVKeepsUnparsableDateVerbatim(t *testing.T) {
	payload, err := CSV([]recorddomain.Record{{
		ID:     1,
		Type:   recorddomain.TypePole,
		Amount: decimal.NewFromInt(5),
		Date:   "mañana",
	}})
	require.NoError(t, err)
	require.Contains(t, string(payload), "mañana")
}
