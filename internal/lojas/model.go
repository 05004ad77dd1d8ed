package lojas

import "time"

// Loja is a store/branch unit with an assigned service area. Neighborhoods
// are logically a set; the slice is kept sorted for display only.
type Loja struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Neighborhoods []string  `json:"neighborhoods"`
	CreatedAt     time.Time `json:"created_at"`
}
