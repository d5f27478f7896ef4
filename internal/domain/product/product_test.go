package product

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Category Tests
// ============================================

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"macbook", CategoryMacBook, false},
		{"iPhone", CategoryIPhone, false},
		{" tvandhome ", CategoryTVAndHome, false},
		{"others", CategoryOthers, false},
		{"laptops", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "AirPods", CategoryAirPods.Label())
	assert.Equal(t, "TV & Home", CategoryTVAndHome.Label())
	assert.Equal(t, "vintage", Category("vintage").Label())
	assert.Equal(t, "Uncategorized", Category("").Label())
}

func TestCategories_AllValid(t *testing.T) {
	assert.Len(t, Categories, 7)
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("vintage").Valid())
}

// ============================================
// Product Decoding Tests
// ============================================

func TestProduct_DecodeBackendJSON(t *testing.T) {
	raw := `{"id": 7, "name": "MacBook Air", "description": "M3", "image": "/media/air.png", "price": 114900, "category": "macbook"}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "7", p.IDString())
	assert.True(t, decimal.NewFromInt(114900).Equal(p.Price))
	assert.Equal(t, CategoryMacBook, p.Category)
}

func TestGroupByCategory(t *testing.T) {
	products := []Product{
		{ID: 1, Category: CategoryIPhone},
		{ID: 2, Category: "vintage"},
		{ID: 3, Category: CategoryMacBook},
		{ID: 4, Category: CategoryIPhone},
	}

	groups := GroupByCategory(products)

	require.Len(t, groups, 3)
	assert.Equal(t, CategoryMacBook, groups[0].Category)
	assert.Equal(t, CategoryIPhone, groups[1].Category)
	assert.Equal(t, []int{1, 4}, []int{groups[1].Products[0].ID, groups[1].Products[1].ID})
	assert.Equal(t, Category("vintage"), groups[2].Category)
}

// ============================================
// Carousel Tests
// ============================================

func TestPages(t *testing.T) {
	products := make([]Product, 10)
	for i := range products {
		products[i].ID = i + 1
	}

	pages := Pages(products, SlideSize)

	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 4)
	assert.Len(t, pages[2], 2)
	assert.Equal(t, 9, pages[2][0].ID)
	assert.Nil(t, Pages(nil, SlideSize))
}

func TestCarousel_WrapsAround(t *testing.T) {
	c := NewCarousel(2, 3)
	assert.Equal(t, 0, c.Next())
	assert.Equal(t, 1, c.Prev())

	c = NewCarousel(0, 3)
	assert.Equal(t, 2, c.Prev())
	assert.Equal(t, 1, c.Next())
	assert.Equal(t, []int{0, 1, 2}, c.Indicators())
}

func TestNewCarousel_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 0, NewCarousel(9, 3).Index)
	assert.Equal(t, 0, NewCarousel(-1, 3).Index)
	assert.Equal(t, Carousel{}, NewCarousel(1, 0))
}

// ============================================
// Form Tests
// ============================================

func TestForm_Validate_CreateRequiresName(t *testing.T) {
	errs := Form{Price: "100", Category: "ipad"}.Validate()
	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("price"))
}

func TestForm_Validate_EditAllowsPartial(t *testing.T) {
	errs := Form{ID: 3, Price: "129900"}.Validate()
	assert.True(t, errs.Empty())
}

func TestForm_Validate_BadPriceAndCategory(t *testing.T) {
	errs := Form{Name: "Pencil", Price: "-5", Category: "pens"}.Validate()
	assert.True(t, errs.Has("price"))
	assert.True(t, errs.Has("category"))
}

func TestForm_Fields_SkipsEmpty(t *testing.T) {
	fields := Form{Name: " AirPods Pro ", Price: "", Category: "AIRPODS"}.Fields()
	assert.Equal(t, map[string]string{"name": "AirPods Pro", "category": "airpods"}, fields)
}

func TestFormFor_PrefillsProduct(t *testing.T) {
	f := FormFor(Product{ID: 5, Name: "iPad", Price: decimal.NewFromInt(34900), Category: CategoryIPad})
	assert.True(t, f.Editing())
	assert.Equal(t, "34900", f.Price)
	assert.Equal(t, "ipad", f.Category)
}
