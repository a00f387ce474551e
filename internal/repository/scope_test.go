package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/domain"
	"github.com/comprasys/cotacao-api/internal/repository"
)

// setupMinimalTestDB creates a minimal test database for scope tests
func setupMinimalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// SimpleModel is a minimal model for testing the buyer filter
type SimpleModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string
	BuyerID string `gorm:"column:buyer_id"`
}

func TestApplyBuyerFilter_WithFilter(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	buyerID := "buyer-7"
	filter := &auth.BuyerFilter{
		BuyerID: &buyerID,
	}
	ctx := auth.WithBuyerFilter(context.Background(), filter)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyBuyerFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "buyer_id", "Query should contain buyer_id filter")
}

func TestApplyBuyerFilter_ApproverUnfiltered(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	userCtx := &auth.UserContext{
		UserID: "supervisor-1",
		Roles:  []domain.UserRoleType{domain.RoleSupervisor},
	}
	ctx := auth.WithUserContext(context.Background(), userCtx)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyBuyerFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.NotContains(t, sql, "buyer_id =", "Approvers should not be scoped to a buyer")
}

func TestApplyBuyerFilter_PlainBuyerScoped(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	userCtx := &auth.UserContext{
		UserID: "buyer-7",
		Roles:  []domain.UserRoleType{domain.RoleBuyer},
	}
	ctx := auth.WithUserContext(context.Background(), userCtx)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyBuyerFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "buyer_id", "Plain buyers should be scoped to their own rows")
}

func TestApplyBuyerFilterWithColumn(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	buyerID := "buyer-7"
	ctx := auth.WithBuyerFilter(context.Background(), &auth.BuyerFilter{
		BuyerID: &buyerID,
	})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyBuyerFilterWithColumn(ctx, tx.Model(&SimpleModel{}), "quotations.buyer_id").Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "quotations.buyer_id", "Query should contain qualified column name")
}

func TestMustHaveBuyerAccess(t *testing.T) {
	tests := []struct {
		name          string
		filterBuyerID *string
		recordBuyerID string
		expected      bool
	}{
		{
			name:          "matching buyer",
			filterBuyerID: strPtr("buyer-7"),
			recordBuyerID: "buyer-7",
			expected:      true,
		},
		{
			name:          "non-matching buyer",
			filterBuyerID: strPtr("buyer-7"),
			recordBuyerID: "buyer-8",
			expected:      false,
		},
		{
			name:          "no filter means full access",
			filterBuyerID: nil,
			recordBuyerID: "buyer-8",
			expected:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := auth.WithBuyerFilter(context.Background(), &auth.BuyerFilter{
				BuyerID: tt.filterBuyerID,
			})

			result := repository.MustHaveBuyerAccess(ctx, tt.recordBuyerID)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuildOrderClause(t *testing.T) {
	fieldMap := map[string]string{
		"createdAt": "created_at",
		"status":    "status",
	}

	t.Run("mapped field", func(t *testing.T) {
		clause := repository.BuildOrderClause(repository.SortConfig{
			Field: "createdAt",
			Order: repository.SortOrderAsc,
		}, fieldMap, "updated_at")
		assert.Equal(t, "created_at ASC", clause)
	})

	t.Run("unmapped field falls back to default", func(t *testing.T) {
		clause := repository.BuildOrderClause(repository.SortConfig{
			Field: "nonsense; DROP TABLE quotations",
			Order: repository.SortOrderDesc,
		}, fieldMap, "updated_at")
		assert.Equal(t, "updated_at DESC", clause)
	})
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("asc"))
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("ASC"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("desc"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder(""))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("sideways"))
}

func strPtr(s string) *string {
	return &s
}
