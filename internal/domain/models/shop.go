// internal/domain/models/shop.go
package models

// DefaultSiteName is the name shown in page titles and the header.
const DefaultSiteName = "RepairHub"

// ShopInfo is the shop identity printed at the top of exported documents.
type ShopInfo struct {
	Name    string
	Address string
	City    string
	Phone   string
}

// DefaultShopInfo is used when no shop details are configured.
var DefaultShopInfo = ShopInfo{
	Name:    "Car Repair Shop",
	Address: `"Tsar Simeon" St. 99`,
	City:    "Sofia",
	Phone:   "0888 888 888",
}
