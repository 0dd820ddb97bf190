package recommend

// Restaurant is the hydrated view of a search hit. Read-only once fetched.
type Restaurant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address []string `json:"address"`
}
