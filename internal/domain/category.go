package domain

import "net/url"

// CategoryView is one entry of the house-type carousel.
type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Href string `json:"href"`
}

// BuildCategoryViews maps house types to carousel entries, preserving order.
func BuildCategoryViews(types []HouseType) []CategoryView {
	views := make([]CategoryView, 0, len(types))
	for _, t := range types {
		views = append(views, CategoryView{
			ID:   t.ID,
			Name: t.Name,
			Icon: t.Icon,
			Href: "/housecategory?" + url.Values{"typeId": {t.ID}}.Encode(),
		})
	}
	return views
}
