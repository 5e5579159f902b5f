package domain

type HostStats struct {
	TotalBookings   int   `json:"totalBookings"`
	PendingRequests int   `json:"pendingRequests"`
	TotalEarnings   int64 `json:"totalEarnings"`
}

type AdminStats struct {
	Users      int `json:"usersCount"`
	Properties int `json:"propertyCount"`
	Bookings   int `json:"bookingCount"`
	Reviews    int `json:"reviewCount"`
}
