package product

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the closed set of catalog categories the backend accepts.
type Category string

const (
	CategoryMacBook   Category = "macbook"
	CategoryIPhone    Category = "iphone"
	CategoryIPad      Category = "ipad"
	CategoryWatch     Category = "watch"
	CategoryAirPods   Category = "airpods"
	CategoryTVAndHome Category = "tvandhome"
	CategoryOthers    Category = "others"
)

var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMacBook,
	CategoryIPhone,
	CategoryIPad,
	CategoryWatch,
	CategoryAirPods,
	CategoryTVAndHome,
	CategoryOthers,
}

var categoryLabels = map[Category]string{
	CategoryMacBook:   "MacBook",
	CategoryIPhone:    "iPhone",
	CategoryIPad:      "iPad",
	CategoryWatch:     "Watch",
	CategoryAirPods:   "AirPods",
	CategoryTVAndHome: "TV & Home",
	CategoryOthers:    "Others",
}

// ParseCategory accepts the wire value in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human-readable name. Values outside the enum are shown as-is.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	if c == "" {
		return "Uncategorized"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
