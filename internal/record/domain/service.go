package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AddRequest asks for quantity individual records of the given type. Date is
// optional (defaults to today); Amount overrides the configured unit price,
// which free-form SERVICE entries use.
type AddRequest struct {
	Type        InstallationType `json:"type"`
	Quantity    int              `json:"quantity"`
	Date        string           `json:"date,omitempty"`
	Description string           `json:"description,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// Service is the record store. List, Add and Delete always come back with the
// current record list: every network failure degrades to the local cache path
// instead of surfacing. Add and Delete return an error only when the request
// itself is invalid.
type Service interface {
	List(ctx context.Context) []Record
	Add(ctx context.Context, req AddRequest) ([]Record, error)
	Delete(ctx context.Context, id snowflake.ID) []Record
	ExportBackup() ([]byte, error)
	ImportBackup(payload []byte) error
}

// RemoteRepository is the remote record table.
type RemoteRepository interface {
	ListOrdered(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, records []Record) error
	DeleteByID(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidType     = errors.New("invalid_installation_type")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrInvalidBackup   = errors.New("invalid_backup")
)
