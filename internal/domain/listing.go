package domain

import "strings"

type GuestLimits struct {
	Adults    int `json:"adults"`
	Children  int `json:"children"`
	Infants   int `json:"infants"`
	Pets      int `json:"pets"`
	MaxGuests int `json:"maxGuests"`
}

type ImageSet struct {
	Kind string   `json:"type,omitempty"`
	URLs []string `json:"urls"`
}

type Listing struct {
	ID            string      `json:"_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Location      string      `json:"location"`
	PricePerNight int64       `json:"pricePerNight"`
	HouseType     string      `json:"houseType,omitempty"`
	Guests        GuestLimits `json:"guests"`
	Amenities     []string    `json:"amenities,omitempty"`
	Images        []ImageSet  `json:"images,omitempty"`
	Host          *User       `json:"hostId,omitempty"`
}

// ImageURLs flattens the listing's image sets, resolving relative paths against base.
func (l Listing) ImageURLs(base string) []string {
	var urls []string
	for _, set := range l.Images {
		for _, u := range set.URLs {
			if u == "" {
				continue
			}
			if !strings.HasPrefix(u, "http") {
				u = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(u, "/")
			}
			urls = append(urls, u)
		}
	}
	return urls
}

// Matches reports whether the title or location contains query, ignoring case.
func (l Listing) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Location), q)
}

type Amenity struct {
	ID      string `json:"_id"`
	Type    string `json:"type"`
	IconURL string `json:"iconUrl"`
}

type HouseType struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// PropertyForm is the multipart payload used to add or update a listing.
type PropertyForm struct {
	Title       string
	Description string
	Location    string
	Price       int64
	HouseType   string
	Limits      GuestLimits
	Amenities   []string
	Interior    []Upload
	Exterior    []Upload
}

type Upload struct {
	Filename string
	Content  []byte
}
