package domain

// CellarWine is a stored bottle as seen by the backfill job.
type CellarWine struct {
	ID             int64
	Name           string
	Vintage        int
	GrapeVarietal  string
	Country        string
	Region         string
	Color          Color
	DrinkingWindow string
}

// Query converts the stored bottle into a lookup request.
func (w CellarWine) Query() WineQuery {
	return WineQuery{
		Name:          w.Name,
		Vintage:       w.Vintage,
		GrapeVarietal: w.GrapeVarietal,
		Country:       w.Country,
		Region:        w.Region,
		Color:         w.Color,
	}
}

// BackfillReport summarises one backfill run.
type BackfillReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
