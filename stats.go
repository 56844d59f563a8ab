package timero

// DateLayout is the calendar-day key format of StatsRecord.Daily.
const DateLayout = "2006-01-02"

type DailyStats struct {
	Date         string `json:"date"`
	Count        int    `json:"count"`
	TotalMinutes int    `json:"totalMinutes"`
}

type Streak struct {
	Current  int              `json:"current"`
	Max      int              `json:"max"`
	LastDate Optional[string] `json:"lastDate"`
}

type StatsRecord struct {
	Daily         map[string]DailyStats `json:"daily"`
	Hourly        map[int]int           `json:"hourly"`
	Streak        Streak                `json:"streak"`
	TotalSessions int                   `json:"totalSessions"`
}

func EmptyStats() StatsRecord {
	return StatsRecord{
		Daily:  make(map[string]DailyStats),
		Hourly: make(map[int]int),
	}
}
