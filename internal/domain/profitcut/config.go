package profitcut

// MissingProductPolicy decides what happens when a scanned line item
// references a product that no longer exists.
type MissingProductPolicy string

const (
	// MissingProductSkipCost recognizes the revenue but contributes zero
	// cost for the missing product, understating cost.
	MissingProductSkipCost MissingProductPolicy = "skip_cost"

	// MissingProductFail aborts the cut with NotFound.
	MissingProductFail MissingProductPolicy = "fail"
)

// Config holds engine configuration.
type Config struct {
	MissingProduct MissingProductPolicy
}

// DefaultConfig matches the historical behavior: missing products are
// skipped silently on the cost side.
func DefaultConfig() Config {
	return Config{MissingProduct: MissingProductSkipCost}
}
