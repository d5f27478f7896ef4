package product

// SlideSize is how many products one carousel slide shows.
const SlideSize = 4

// Pages splits products into consecutive pages of size. The last page may be short.
func Pages(products []Product, size int) [][]Product {
	if size <= 0 || len(products) == 0 {
		return nil
	}
	pages := make([][]Product, 0, (len(products)+size-1)/size)
	for start := 0; start < len(products); start += size {
		end := start + size
		if end > len(products) {
			end = len(products)
		}
		pages = append(pages, products[start:end])
	}
	return pages
}

// Carousel tracks the active slide over Count slides with wrap-around.
type Carousel struct {
	Index int
	Count int
}

// NewCarousel clamps index into range; an out-of-range index falls back to the first slide.
func NewCarousel(index, count int) Carousel {
	if count <= 0 {
		return Carousel{}
	}
	if index < 0 || index >= count {
		index = 0
	}
	return Carousel{Index: index, Count: count}
}

func (c Carousel) Next() int {
	if c.Count == 0 {
		return 0
	}
	if c.Index == c.Count-1 {
		return 0
	}
	return c.Index + 1
}

func (c Carousel) Prev() int {
	if c.Count == 0 {
		return 0
	}
	if c.Index == 0 {
		return c.Count - 1
	}
	return c.Index - 1
}

// Indicators returns 0..Count-1 for rendering slide dots.
func (c Carousel) Indicators() []int {
	out := make([]int, c.Count)
	for i := range out {
		out[i] = i
	}
	return out
}
