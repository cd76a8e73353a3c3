package core

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackCategory is the key of the default table's catch-all category.
const FallbackCategory = "otros"

// Category is one classification bucket. A category with no keywords is the
// table's fallback.
type Category struct {
	Key      string
	Label    string
	Icon     string
	Color    string
	Keywords []string
}

// CategoryTable is an ordered, read-only list of categories. Declaration order
// is the keyword search order.
type CategoryTable struct {
	categories []Category
	index      map[string]int
	fallback   int
}

var defaultCategories = []Category{
	{
		Key:      "supermercado",
		Label:    "Supermercado",
		Icon:     "fa-cart-shopping",
		Color:    "#FF9F43",
		Keywords: []string{"coto", "supermercado", "super", "carniceria", "verduleria", "carrefour", "dia", "jumbo", "disco", "chino"},
	},
	{
		Key:      "mercadopago",
		Label:    "Mercado Pago",
		Icon:     "fa-handshake",
		Color:    "#009EE3",
		Keywords: []string{"mp", "mercado", "mercado pago", "transferencia", "qr"},
	},
	{
		Key:      "comida",
		Label:    "Comida",
		Icon:     "fa-utensils",
		Color:    "#FF6B6B",
		Keywords: []string{"comida", "mostaza", "mc", "mcdonalds", "burger", "king", "empanadas", "pizza", "restaurante", "bar", "cafe", "café", "starbucks", "pedidosya", "rappi"},
	},
	{
		Key:      "transporte",
		Label:    "Transporte",
		Icon:     "fa-car",
		Color:    "#54A0FF",
		Keywords: []string{"uber", "cabify", "didi", "sube", "taxi", "nafta", "estacionamiento", "peaje", "bondi", "colectivo", "tren", "subte"},
	},
	{
		Key:      "farmacia",
		Label:    "Farmacia",
		Icon:     "fa-pills",
		Color:    "#1DD1A1",
		Keywords: []string{"farmacia", "remedios", "medicamentos", "farmacity"},
	},
	{
		Key:   FallbackCategory,
		Label: "Otros",
		Icon:  "fa-bag-shopping",
		Color: "#8395A7",
	},
}

// NewCategoryTable builds a table from definitions in search order. Exactly
// one definition must have an empty keyword list. Keywords are lower-cased.
func NewCategoryTable(defs []Category) (*CategoryTable, error) {
	t := &CategoryTable{
		categories: make([]Category, 0, len(defs)),
		index:      make(map[string]int, len(defs)),
		fallback:   -1,
	}
	for _, d := range defs {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return nil, errors.New("category with empty key")
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("duplicate category %q", key)
		}
		c := Category{Key: key, Label: d.Label, Icon: d.Icon, Color: d.Color}
		for _, kw := range d.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				c.Keywords = append(c.Keywords, kw)
			}
		}
		if len(c.Keywords) == 0 {
			if t.fallback >= 0 {
				return nil, fmt.Errorf("categories %q and %q both lack keywords", t.categories[t.fallback].Key, key)
			}
			t.fallback = len(t.categories)
		}
		t.index[key] = len(t.categories)
		t.categories = append(t.categories, c)
	}
	if t.fallback < 0 {
		return nil, errors.New("no fallback category (one category must have no keywords)")
	}
	return t, nil
}

// DefaultCategoryTable returns the built-in Spanish category table.
func DefaultCategoryTable() *CategoryTable {
	t, err := NewCategoryTable(defaultCategories)
	if err != nil {
		panic(err)
	}
	return t
}

// Categories returns a copy of the definitions in declaration order.
func (t *CategoryTable) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		c.Keywords = append([]string(nil), c.Keywords...)
		out[i] = c
	}
	return out
}

func (t *CategoryTable) Lookup(key string) (Category, bool) {
	i, ok := t.index[key]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

func (t *CategoryTable) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}

func (t *CategoryTable) Fallback() Category {
	return t.categories[t.fallback]
}

// Resolve returns the category for key, or the fallback when key is unknown.
func (t *CategoryTable) Resolve(key string) Category {
	if c, ok := t.Lookup(key); ok {
		return c
	}
	return t.Fallback()
}
