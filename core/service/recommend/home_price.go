package recommend

import (
	"math/rand"
	"sync"

	"ruralhome_server/core/domain"
)

const priceUnit int64 = 10_000

// PriceBracket is an inclusive KRW range.
type PriceBracket struct {
	Min int64
	Max int64
}

var rentBrackets = map[domain.Budget]PriceBracket{
	domain.BudgetLow:    {Min: 100_000, Max: 300_000},
	domain.BudgetMedium: {Min: 300_000, Max: 600_000},
	domain.BudgetHigh:   {Min: 600_000, Max: 1_000_000},
}

var saleBrackets = map[domain.Budget]PriceBracket{
	domain.BudgetLow:    {Min: 30_000_000, Max: 80_000_000},
	domain.BudgetMedium: {Min: 80_000_000, Max: 150_000_000},
	domain.BudgetHigh:   {Min: 150_000_000, Max: 300_000_000},
}

// depositMultiplier applies to synthesized monthly rent.
const depositMultiplier = 10

// BracketFor returns the price range implied by (budget, purchaseType).
// Unknown budgets use the medium bracket.
func BracketFor(budget domain.Budget, purchase domain.PurchaseType) PriceBracket {
	table := saleBrackets
	if purchase == domain.PurchaseRent {
		table = rentBrackets
	}
	if b, ok := table[budget]; ok {
		return b
	}
	return table[domain.BudgetMedium]
}

// PriceSynthesizer draws budget-aware prices for feed listings.
// The random source is owned by the instance so runs can be seeded and
// concurrent pipelines never share state.
type PriceSynthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPriceSynthesizer(seed int64) *PriceSynthesizer {
	return &PriceSynthesizer{rng: rand.New(rand.NewSource(seed))}
}

// Draw returns a uniform value in the bracket rounded to 10,000 KRW.
func (p *PriceSynthesizer) Draw(b PriceBracket) int64 {
	span := b.Max - b.Min
	p.mu.Lock()
	var offset int64
	if span > 0 {
		offset = p.rng.Int63n(span + 1)
	}
	p.mu.Unlock()

	v := roundToUnit(b.Min + offset)
	if v < b.Min {
		v += priceUnit
	}
	if v > b.Max {
		v -= priceUnit
	}
	return v
}

// Apply replaces c's price with one drawn from the user's bracket.
// Feed prices are never trusted as-is; a feed value outside the bracket
// would bypass affordability, since the scorer does not weigh budget.
func (p *PriceSynthesizer) Apply(pref domain.PreferenceVector, c *domain.Candidate) {
	c.PriceInfo = domain.PriceInfo{}
	purchase := pref.EffectivePurchaseType()
	amount := p.Draw(BracketFor(pref.Budget, purchase))

	if purchase == domain.PurchaseRent {
		deposit := amount * depositMultiplier
		c.PriceInfo.RentAmount = &amount
		c.PriceInfo.DepositAmount = &deposit
		return
	}
	c.PriceInfo.SaleAmount = &amount
}

func roundToUnit(v int64) int64 {
	return (v + priceUnit/2) / priceUnit * priceUnit
}
