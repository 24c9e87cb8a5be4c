// Package domain defines the contract with the hosted intent extraction
// service. The core treats the service as opaque and untrusted: responses are
// validated strictly before anything is applied.
package domain

import (
	"context"
	"errors"

	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/shopspring/decimal"
)

type Intent string

var (
	IntentLogging     Intent = "LOGGING"
	IntentQuery       Intent = "QUERY"
	IntentCorrection  Intent = "CORRECTION"
	IntentGeneralChat Intent = "GENERAL_CHAT"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentLogging, IntentQuery, IntentCorrection, IntentGeneralChat:
		return true
	}
	return false
}

// RecordDraft is one record the service proposes to log. Quantity, date,
// description and amount are optional; the record store fills the gaps.
type RecordDraft struct {
	Type        recorddomain.InstallationType `json:"type"`
	Quantity    int                           `json:"quantity,omitempty"`
	Date        string                        `json:"date,omitempty"`
	Description string                        `json:"description,omitempty"`
	Amount      *decimal.Decimal              `json:"amount,omitempty"`
}

// Extraction is the validated, tagged result of one extraction call.
// Drafts is populated only for LOGGING; NewQuantity only for CORRECTION.
type Extraction struct {
	Intent      Intent
	Drafts      []RecordDraft
	NewQuantity int
	Reply       string
}

// Turn is one prior exchange threaded back as conversation context.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Extractor wraps the remote completion call. The recent records are passed
// explicitly so "last record" context never depends on array ordering
// conventions.
type Extractor interface {
	Extract(ctx context.Context, text string, recent []recorddomain.Record, history []Turn) (Extraction, error)
	// Ping validates the credential without performing real work.
	Ping(ctx context.Context) error
}

var (
	ErrMissingCredential = errors.New("missing_credential")
	ErrInvalidCredential = errors.New("invalid_credential")
	ErrMalformedResponse = errors.New("malformed_response")
	ErrUnavailable       = errors.New("extraction_unavailable")
)
