package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInstallationTypeClosedSet(t *testing.T) {
	require.Equal(t,
		[]InstallationType{TypeResidential, TypeCorporate, TypePole, TypeService},
		AllTypes(),
	)
	for _, it := range AllTypes() {
		require.True(t, it.Valid(), string(it))
	}
	require.False(t, InstallationType("").Valid())
	require.False(t, InstallationType("TRENCHING").Valid())
}

func TestInstallationTypeLabels(t *testing.T) {
	require.Equal(t, "Residencial", TypeResidential.Label())
	require.Equal(t, "Corporativo", TypeCorporate.Label())
	require.Equal(t, "Poste", TypePole.Label())
	require.Equal(t, "Servicio", TypeService.Label())
	require.Equal(t, "UNKNOWN", InstallationType("UNKNOWN").Label())
}

func TestSortByCreatedAtBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	records := []Record{
		{ID: 30, CreatedAt: at},
		{ID: 10, CreatedAt: at},
		{ID: 20, CreatedAt: at.Add(-time.Second)},
	}
	SortByCreatedAt(records)
	require.EqualValues(t, 20, records[0].ID)
	require.EqualValues(t, 10, records[1].ID)
	require.EqualValues(t, 30, records[2].ID)
}
