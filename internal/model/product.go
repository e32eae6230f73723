package model

import "strings"

// Product is one of the spend columns of the customer table.
type Product string

const (
	ProductWines  Product = "MntWines"
	ProductFruits Product = "MntFruits"
	ProductMeat   Product = "MntMeatProducts"
	ProductFish   Product = "MntFishProducts"
	ProductSweets Product = "MntSweetProducts"
	ProductGold   Product = "MntGoldProds"
)

// Products lists the spend columns in table order. Ties are broken by this order.
var Products = []Product{
	ProductWines,
	ProductFruits,
	ProductMeat,
	ProductFish,
	ProductSweets,
	ProductGold,
}

var productLabels = map[Product]string{
	ProductWines:  "Wines",
	ProductFruits: "Fruits",
	ProductMeat:   "Meat products",
	ProductFish:   "Fish products",
	ProductSweets: "Sweet products",
	ProductGold:   "Gold products",
}

var productReasons = map[Product]string{
	ProductWines:  "Wine is a popular and widely consumed beverage, with a long history of cultural significance and social appeal.",
	ProductFruits: "Fruits are a healthy and nutritious food that are recommended as part of a balanced diet.",
	ProductMeat:   "Meat is a rich source of protein and other essential nutrients, and is a staple in many diets around the world.",
	ProductFish:   "Fish is a lean protein source that is rich in omega-3 fatty acids and other important nutrients, and is recommended as part of a healthy diet.",
	ProductSweets: "Sweets are a popular treat that many people enjoy as a way to indulge their sweet tooth or reward themselves for good behavior.",
	ProductGold:   "Gold products may be purchased as luxury items or as a form of investment, and may hold both aesthetic and monetary value.",
}

func (p Product) String() string { return string(p) }

func (p Product) Valid() bool {
	_, ok := productLabels[p]
	return ok
}

// Label is the human readable product name.
func (p Product) Label() string {
	if l, ok := productLabels[p]; ok {
		return l
	}
	return string(p)
}

// Reason returns the canned explanation shown next to the best seller.
func (p Product) Reason() string { return productReasons[p] }

// ParseProduct accepts either the column name or the label, case-insensitive.
func ParseProduct(s string) (Product, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Products {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, productLabels[p]) {
			return p, true
		}
	}
	return "", false
}
