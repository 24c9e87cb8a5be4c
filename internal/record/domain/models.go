// Package domain contains the record model shared by the local cache and the
// remote table.
package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InstallationType is the closed set of billable work types.
type InstallationType string

var (
	TypeResidential InstallationType = "RESIDENTIAL"
	TypeCorporate   InstallationType = "CORPORATE"
	TypePole        InstallationType = "POLE"
	TypeService     InstallationType = "SERVICE"
)

// AllTypes lists every installation type in display order.
func AllTypes() []InstallationType {
	return []InstallationType{TypeResidential, TypeCorporate, TypePole, TypeService}
}

// Valid reports whether t belongs to the closed set.
func (t InstallationType) Valid() bool {
	switch t {
	case TypeResidential, TypeCorporate, TypePole, TypeService:
		return true
	}
	return false
}

// Label returns the human label used by CSV export and assistant replies.
func (t InstallationType) Label() string {
	switch t {
	case TypeResidential:
		return "Residencial"
	case TypeCorporate:
		return "Corporativo"
	case TypePole:
		return "Poste"
	case TypeService:
		return "Servicio"
	}
	return string(t)
}

// SyncState tags each cached record with its upload status. It lives only in
// the local cache; the remote table holding a record is what SYNCED means.
type SyncState string

var (
	SyncLocalOnly SyncState = "LOCAL_ONLY"
	SyncSynced    SyncState = "SYNCED"
)

// DateLayout is the calendar-date format for the effective date.
const DateLayout = "2006-01-02"

// Record stores one billable unit of completed work. The amount snapshots the
// unit price at creation time and is never recomputed.
type Record struct {
	ID          snowflake.ID     `json:"id" gorm:"primaryKey"`
	Type        InstallationType `json:"type" gorm:"type:text;not null"`
	Quantity    int              `json:"quantity,omitempty" gorm:"not null;default:1"`
	Amount      decimal.Decimal  `json:"amount" gorm:"type:numeric;not null"`
	Date        string           `json:"date" gorm:"type:text;not null"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	Notes       string           `json:"notes,omitempty" gorm:"type:text"`
	SyncState   SyncState        `json:"sync_state,omitempty" gorm:"-"`
	CreatedAt   time.Time        `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "records" }

// SortByCreatedAt orders records by creation timestamp ascending, tie-broken
// by id so the order is total.
func SortByCreatedAt(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
