package domain

// Hotel is one row of the hotel profile table.
type Hotel struct {
	Num        int      `json:"num"` // ordinal used for the default sort order
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rank       string   `json:"rank"`
	TotalScore *float64 `json:"total_score"`
}
