package services

import (
	"testing"
	"time"

	"secmaster/internal/models"
	"secmaster/internal/testutil"
)

func floatPtr(v float64) *float64 { return &v }

func TestCreateFactor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFactorService(db)

	t.Run("creates factor with uppercased code and default type", func(t *testing.T) {
		factor, err := service.CreateFactor("pe_ratio", "P/E Ratio", "Trailing twelve months", "valuation", "")
		testutil.AssertNoError(t, err)
		if factor.Code != "PE_RATIO" {
			t.Errorf("expected code PE_RATIO, got %q", factor.Code)
		}
		if factor.DataType != models.FactorDataTypeNumeric {
			t.Errorf("expected default numeric data type, got %q", factor.DataType)
		}
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := service.CreateFactor("", "Nameless", "", "", models.FactorDataTypeNumeric)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := service.CreateFactor("BETA", "", "", "", models.FactorDataTypeNumeric)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects unknown data type", func(t *testing.T) {
		_, err := service.CreateFactor("BETA", "Beta", "", "", models.FactorDataType("decimal"))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		_, err := service.CreateFactor("MKT_CAP", "Market Cap", "", "size", models.FactorDataTypeNumeric)
		testutil.AssertNoError(t, err)

		_, err = service.CreateFactor("mkt_cap", "Market Cap Again", "", "size", models.FactorDataTypeNumeric)
		testutil.AssertAppError(t, err, "DUPLICATE_FACTOR")
	})
}

func TestRecordValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFactorService(db)

	source := testutil.CreateTestSource(t, db, "EXCEL_IMPORT", 50, true)
	factor := testutil.CreateTestFactor(t, db, "PE_RATIO")
	security := testutil.CreateTestSecurity(t, db)
	day := testutil.Date(2024, time.March, 1)

	t.Run("inserts new observations", func(t *testing.T) {
		count, err := service.RecordValues(source.Code, []FactorValueInput{
			{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day, ValueNumeric: floatPtr(18.4)},
		})
		testutil.AssertNoError(t, err)
		if count != 1 {
			t.Errorf("expected 1 inserted row, got %d", count)
		}
	})

	t.Run("is idempotent on the full key", func(t *testing.T) {
		count, err := service.RecordValues(source.Code, []FactorValueInput{
			{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day, ValueNumeric: floatPtr(99)},
		})
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected 0 inserted rows for repeat, got %d", count)
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := service.RecordValues(source.Code, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("rejects unknown factor code", func(t *testing.T) {
		_, err := service.RecordValues(source.Code, []FactorValueInput{
			{SecurityID: security.ID, FactorCode: "NO_SUCH_FACTOR", AsOfDate: day, ValueNumeric: floatPtr(1)},
		})
		testutil.AssertAppError(t, err, "FACTOR_NOT_FOUND")
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := service.RecordValues("NO_SUCH_SOURCE", []FactorValueInput{
			{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day, ValueNumeric: floatPtr(1)},
		})
		testutil.AssertAppError(t, err, "SOURCE_NOT_FOUND")
	})
}

func TestGetBestValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFactorService(db)

	excel := testutil.CreateTestSource(t, db, "EXCEL_IMPORT", 50, true)
	derived := testutil.CreateTestSource(t, db, "DERIVED_CALC", 200, true)
	factor := testutil.CreateTestFactor(t, db, "PE_RATIO")
	security := testutil.CreateTestSecurity(t, db)

	day1 := testutil.Date(2024, time.March, 1)
	day2 := testutil.Date(2024, time.March, 2)
	seed := []FactorValueInput{
		{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day1, ValueNumeric: floatPtr(18.4)},
	}
	_, err := service.RecordValues(excel.Code, seed)
	testutil.AssertNoError(t, err)
	_, err = service.RecordValues(derived.Code, []FactorValueInput{
		{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day1, ValueNumeric: floatPtr(18.9)},
		{SecurityID: security.ID, FactorCode: factor.Code, AsOfDate: day2, ValueNumeric: floatPtr(19.1)},
	})
	testutil.AssertNoError(t, err)

	t.Run("picks highest priority source per date", func(t *testing.T) {
		best, err := service.GetBestValues(security.ID, factor.Code, nil, nil)
		testutil.AssertNoError(t, err)
		if len(best) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(best))
		}
		if best[0].SourceCode != "EXCEL_IMPORT" || *best[0].ValueNumeric != 18.4 {
			t.Errorf("day 1: expected EXCEL_IMPORT 18.4, got %s %v", best[0].SourceCode, *best[0].ValueNumeric)
		}
		if best[1].SourceCode != "DERIVED_CALC" || *best[1].ValueNumeric != 19.1 {
			t.Errorf("day 2: expected DERIVED_CALC 19.1, got %s %v", best[1].SourceCode, *best[1].ValueNumeric)
		}
	})

	t.Run("respects range bounds", func(t *testing.T) {
		best, err := service.GetBestValues(security.ID, factor.Code, &day2, nil)
		testutil.AssertNoError(t, err)
		if len(best) != 1 || !best[0].AsOfDate.Equal(day2) {
			t.Errorf("expected only day 2, got %+v", best)
		}
	})

	t.Run("returns not found for unknown factor", func(t *testing.T) {
		_, err := service.GetBestValues(security.ID, "NO_SUCH_FACTOR", nil, nil)
		testutil.AssertAppError(t, err, "FACTOR_NOT_FOUND")
	})
}

func TestGetLatestFactors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFactorService(db)

	excel := testutil.CreateTestSource(t, db, "EXCEL_IMPORT", 50, true)
	derived := testutil.CreateTestSource(t, db, "DERIVED_CALC", 200, true)
	pe := testutil.CreateTestFactor(t, db, "PE_RATIO")
	beta := testutil.CreateTestFactor(t, db, "BETA")
	security := testutil.CreateTestSecurity(t, db)

	day1 := testutil.Date(2024, time.March, 1)
	day2 := testutil.Date(2024, time.March, 2)
	_, err := service.RecordValues(excel.Code, []FactorValueInput{
		{SecurityID: security.ID, FactorCode: pe.Code, AsOfDate: day1, ValueNumeric: floatPtr(18.4)},
		{SecurityID: security.ID, FactorCode: beta.Code, AsOfDate: day1, ValueNumeric: floatPtr(1.1)},
	})
	testutil.AssertNoError(t, err)
	_, err = service.RecordValues(derived.Code, []FactorValueInput{
		{SecurityID: security.ID, FactorCode: pe.Code, AsOfDate: day2, ValueNumeric: floatPtr(19.1)},
	})
	testutil.AssertNoError(t, err)

	t.Run("returns reconciled latest value per factor", func(t *testing.T) {
		latest, err := service.GetLatestFactors(security.ID)
		testutil.AssertNoError(t, err)
		if len(latest) != 2 {
			t.Fatalf("expected 2 factors, got %d", len(latest))
		}

		byCode := make(map[string]BestFactorValue)
		for _, row := range latest {
			byCode[row.FactorCode] = row
		}
		if row := byCode["PE_RATIO"]; !row.AsOfDate.Equal(day2) || *row.ValueNumeric != 19.1 {
			t.Errorf("PE_RATIO: expected day 2 value 19.1, got %v on %v", *row.ValueNumeric, row.AsOfDate)
		}
		if row := byCode["BETA"]; !row.AsOfDate.Equal(day1) || *row.ValueNumeric != 1.1 {
			t.Errorf("BETA: expected day 1 value 1.1, got %v on %v", *row.ValueNumeric, row.AsOfDate)
		}
	})

	t.Run("empty result for security with no values", func(t *testing.T) {
		other := testutil.CreateTestSecurity(t, db)
		latest, err := service.GetLatestFactors(other.ID)
		testutil.AssertNoError(t, err)
		if len(latest) != 0 {
			t.Errorf("expected no rows, got %d", len(latest))
		}
	})
}
