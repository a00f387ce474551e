package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// ErrVersionConflict is returned when an optimistic-concurrency update loses
// the race: the row's lock_version no longer matches the caller's copy.
var ErrVersionConflict = errors.New("quotation was modified concurrently")

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (updated_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "updatedAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyBuyerFilter applies the buyer scope to a GORM query.
// Plain buyers only see their own quotations; approvers see the whole
// pipeline, so the query is returned unchanged for them.
func ApplyBuyerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	buyerID := auth.GetEffectiveBuyerFilter(ctx)
	if buyerID != nil {
		return query.Where("buyer_id = ?", *buyerID)
	}
	return query
}

// ApplyBuyerFilterWithColumn applies the buyer filter using a specific column name
// Use this when the buyer_id column needs table qualification
func ApplyBuyerFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	buyerID := auth.GetEffectiveBuyerFilter(ctx)
	if buyerID != nil {
		return query.Where(columnName+" = ?", *buyerID)
	}
	return query
}

// MustHaveBuyerAccess checks if the user may touch a record owned by the
// given buyer. Approvers always may.
func MustHaveBuyerAccess(ctx context.Context, recordBuyerID string) bool {
	buyerID := auth.GetEffectiveBuyerFilter(ctx)
	if buyerID == nil {
		return true
	}
	return *buyerID == recordBuyerID
}
