package gormstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carmarket/domain/listing"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/gormstore/po"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// dryRunDB 不连接数据库，只生成 SQL
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "catalog:secret@tcp(127.0.0.1:3306)/catalog?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func listingSQL(db *gorm.DB, spec shared.Specification[*listing.Listing], order listing.SortOrder) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return applySort(applySpecification(tx.Model(&po.ListingPO{}), spec), order).Find(&[]po.ListingPO{})
	})
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(sql, p) {
			t.Errorf("SQL missing %q\n%s", p, sql)
		}
	}
}

func TestStructuredPredicatesTranslate(t *testing.T) {
	lo, hi := shared.NewPrice(1000000), shared.NewPrice(2000000)
	spec := listing.ToSpecification([]listing.Predicate{
		listing.CategoryEquals{CategoryID: "cars"},
		listing.MakeEquals{MakeID: "toyota"},
		listing.PriceRange{Min: &lo, Max: &hi},
		listing.MaxMileage{Mileage: 50000},
		listing.ConditionEquals{Condition: listing.ConditionUsed},
		listing.ExcludeID{ID: "l-9"},
	})

	sql := listingSQL(dryRunDB(t), spec, listing.SortPriceAsc)
	assertContains(t, sql,
		"FROM `listings`",
		"category_id = 'cars'",
		"make_id = 'toyota'",
		"price_cents >= 1000000",
		"price_cents <= 2000000",
		"mileage <= 50000",
		"vehicle_condition = 'used'",
		"id <> 'l-9'",
		"ORDER BY price_cents ASC",
		"id DESC",
	)
}

func TestOneSidedPriceBound(t *testing.T) {
	hi := shared.NewPrice(500000)
	sql := listingSQL(dryRunDB(t), listing.PriceRange{Max: &hi}, listing.SortNewest)
	if strings.Contains(sql, "price_cents >=") {
		t.Errorf("max-only range must not emit a lower bound: %s", sql)
	}
	assertContains(t, sql, "price_cents <= 500000", "ORDER BY created_at DESC")
}

func TestTextSearchTranslate(t *testing.T) {
	spec := listing.ToSpecification([]listing.Predicate{
		listing.TextSearch{Term: "Toy", MakeIDs: []string{"toyota"}},
		listing.ExcludeID{ID: "l-1"},
	})
	sql := listingSQL(dryRunDB(t), spec, listing.SortNewest)
	assertContains(t, sql,
		"LOWER(title) LIKE '%toy%'",
		"OR LOWER(description) LIKE '%toy%'",
		"OR make_id IN ('toyota')",
		"id <> 'l-1'",
	)
	if strings.Contains(sql, "model_id IN") {
		t.Errorf("empty model match must not emit IN clause: %s", sql)
	}
}

func TestNotSpecificationTranslate(t *testing.T) {
	spec := shared.Not[*listing.Listing](listing.MakeEquals{MakeID: "honda"})
	sql := listingSQL(dryRunDB(t), spec, listing.SortNewest)
	assertContains(t, sql, "NOT", "make_id = 'honda'")
}

type unknownSpec struct{}

func (unknownSpec) IsSatisfiedBy(context.Context, *listing.Listing) bool { return true }

func TestUnsupportedSpecificationFails(t *testing.T) {
	db := applySpecification(dryRunDB(t).Model(&po.ListingPO{}), unknownSpec{})
	if db.Error == nil {
		t.Fatal("unknown specification must not be silently dropped")
	}

	nested := applySpecification(dryRunDB(t).Model(&po.ListingPO{}),
		shared.Or[*listing.Listing](listing.FeaturedOnly{}, unknownSpec{}))
	if nested.Error == nil {
		t.Fatal("errors inside OR groups must propagate")
	}
}

func TestLockForUpdateSQL(t *testing.T) {
	sql := dryRunDB(t).ToSQL(func(tx *gorm.DB) *gorm.DB {
		var row po.ListingPO
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", "l-1").Take(&row)
	})
	assertContains(t, sql, "WHERE id = 'l-1'", "FOR UPDATE")
}

func TestContainsPatternEscapes(t *testing.T) {
	if got := containsPattern(`50%_Off\`); got != `%50\%\_off\\%` {
		t.Errorf("containsPattern = %s", got)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{&mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, false},
		{errors.New(`ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)`), true},
		{errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := isDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("isDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
