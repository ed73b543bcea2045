package database

// Product is a single catalog entry. The JSON field names match the wire
// format of the products endpoint, so the same struct is used on both the
// serving and fetching side.
type Product struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	CurrentInventory int     `json:"current_inventory"`
	AvgSales         int     `json:"avg_sales"` // units per week
	LeadTime         int     `json:"lead_time"` // days to replenish
	CreatedAt        *string `json:"created_at,omitempty"`
	UpdatedAt        *string `json:"updated_at,omitempty"`
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalProducts int
	OutOfStock    int
}
