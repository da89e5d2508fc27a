package recommend

import (
	"testing"

	"ruralhome_server/core/domain"
)

func TestBracketFor(t *testing.T) {
	tests := []struct {
		budget   domain.Budget
		purchase domain.PurchaseType
		want     PriceBracket
	}{
		{domain.BudgetLow, domain.PurchaseRent, PriceBracket{100_000, 300_000}},
		{domain.BudgetHigh, domain.PurchaseRent, PriceBracket{600_000, 1_000_000}},
		{domain.BudgetMedium, domain.PurchaseSale, PriceBracket{80_000_000, 150_000_000}},
		{domain.BudgetLow, "", PriceBracket{30_000_000, 80_000_000}},
		{"lavish", domain.PurchaseSale, PriceBracket{80_000_000, 150_000_000}},
	}

	for _, tt := range tests {
		t.Run(string(tt.budget)+"/"+string(tt.purchase), func(t *testing.T) {
			if got := BracketFor(tt.budget, tt.purchase); got != tt.want {
				t.Errorf("BracketFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDrawStaysInBracketAndRounds(t *testing.T) {
	p := NewPriceSynthesizer(42)

	for _, b := range []PriceBracket{
		rentBrackets[domain.BudgetLow],
		rentBrackets[domain.BudgetHigh],
		saleBrackets[domain.BudgetMedium],
		{Min: 150_000, Max: 150_000},
	} {
		for i := 0; i < 500; i++ {
			v := p.Draw(b)
			if v < b.Min || v > b.Max {
				t.Fatalf("Draw(%+v) = %d, out of range", b, v)
			}
			if v%priceUnit != 0 {
				t.Fatalf("Draw(%+v) = %d, not a multiple of %d", b, v, priceUnit)
			}
		}
	}
}

func TestDrawSeededReproducible(t *testing.T) {
	a := NewPriceSynthesizer(7)
	b := NewPriceSynthesizer(7)
	bracket := saleBrackets[domain.BudgetHigh]

	for i := 0; i < 20; i++ {
		if x, y := a.Draw(bracket), b.Draw(bracket); x != y {
			t.Fatalf("draw %d: %d != %d with equal seeds", i, x, y)
		}
	}
}

func TestApplyPrice(t *testing.T) {
	p := NewPriceSynthesizer(1)

	t.Run("rent sets deposit", func(t *testing.T) {
		c := domain.Candidate{}
		p.Apply(domain.PreferenceVector{Budget: domain.BudgetMedium, PurchaseType: domain.PurchaseRent}, &c)
		if c.PriceInfo.RentAmount == nil || c.PriceInfo.DepositAmount == nil {
			t.Fatalf("rent price not set: %+v", c.PriceInfo)
		}
		if *c.PriceInfo.DepositAmount != *c.PriceInfo.RentAmount*depositMultiplier {
			t.Errorf("deposit = %d, want %d", *c.PriceInfo.DepositAmount, *c.PriceInfo.RentAmount*depositMultiplier)
		}
		if c.PriceInfo.SaleAmount != nil {
			t.Error("sale amount set for rent preference")
		}
	})

	t.Run("sale by default", func(t *testing.T) {
		c := domain.Candidate{}
		p.Apply(domain.PreferenceVector{Budget: domain.BudgetLow}, &c)
		if c.PriceInfo.SaleAmount == nil {
			t.Fatal("sale amount not set")
		}
		if v := *c.PriceInfo.SaleAmount; v < 30_000_000 || v > 80_000_000 {
			t.Errorf("sale amount = %d, out of low bracket", v)
		}
	})

	t.Run("feed price outside bracket replaced", func(t *testing.T) {
		bracket := BracketFor(domain.BudgetLow, domain.PurchaseRent)
		for i := 0; i < 50; i++ {
			sale := int64(900_000_000)
			rent := int64(5_000_000)
			c := domain.Candidate{PriceInfo: domain.PriceInfo{SaleAmount: &sale, RentAmount: &rent}}
			p.Apply(domain.PreferenceVector{Budget: domain.BudgetLow, PurchaseType: domain.PurchaseRent}, &c)

			if c.PriceInfo.SaleAmount != nil {
				t.Fatalf("stale sale amount kept: %d", *c.PriceInfo.SaleAmount)
			}
			if c.PriceInfo.RentAmount == nil {
				t.Fatal("rent amount not set")
			}
			if v := *c.PriceInfo.RentAmount; v < bracket.Min || v > bracket.Max {
				t.Fatalf("rent amount = %d, outside %+v", v, bracket)
			}
		}
	})
}
