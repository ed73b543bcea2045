package classifier

// BootstrapExamples is the fixed dataset every session trains on. The four
// hand-authored rows encode the informal replenishment rules: low stock
// relative to sales means reorder, comfortable stock means safe.
var BootstrapExamples = []Example{
	{Features: FeatureVector{20, 50, 3}, Label: 0}, // thin but moving: still safe
	{Features: FeatureVector{5, 30, 5}, Label: 1},  // critical stock, slow replenishment
	{Features: FeatureVector{50, 10, 2}, Label: 0}, // high stock, low sales
	{Features: FeatureVector{8, 60, 2}, Label: 1},  // low stock, high sales
}
