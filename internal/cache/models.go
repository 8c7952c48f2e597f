package cache

// TimestampLayout is the creation-time format stored with every result.
const TimestampLayout = "2006-01-02 15:04:05"

// Result is the stored outcome of analysing one text.
type Result struct {
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// Entry pairs a cached Result with the exact text it is keyed by.
type Entry struct {
	Text string
	Result
}

type Stats struct {
	Entries int
	Size    int64
}
