// Package export renders the record list as a human-readable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"time"

	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
)

// CSV is one-directional: Fecha,Hora,Tipo,Monto,ID with dd/mm/yyyy dates and
// the Spanish type labels.
func CSV(records []recorddomain.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Fecha", "Hora", "Tipo", "Monto", "ID"}); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := w.Write([]string{
			formatDate(record.Date),
			record.CreatedAt.Format("15:04"),
			record.Type.Label(),
			record.Amount.String(),
			record.ID.String(),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatDate(date string) string {
	parsed, err := time.Parse(recorddomain.DateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Format("02/01/2006")
}
