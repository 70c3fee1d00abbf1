package dialect

// Category is a named group of dialects for selection menus. Grouping has
// no effect on translation.
type Category struct {
	Name     string
	Dialects []Dialect
}

var categories = []Category{
	{Name: "岭南闽江", Dialects: []Dialect{Cantonese, Teochew, Hokkien, Hainanese, Fuzhou, Hakka}},
	{Name: "吴越湘赣", Dialects: []Dialect{Shanghainese, Suzhounese, Hunanese, Gan}},
	{Name: "燕赵秦陇", Dialects: []Dialect{Beijing, Northeastern, Sichuanese, Jin, Shandong}},
}

// Categories returns the presentation groups in display order. The returned
// slice is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Dialects: append([]Dialect(nil), c.Dialects...)}
	}
	return out
}

// CategoryOf returns the name of the group containing d.
func CategoryOf(d Dialect) string {
	for _, c := range categories {
		for _, x := range c.Dialects {
			if x == d {
				return c.Name
			}
		}
	}
	return ""
}
