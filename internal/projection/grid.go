package projection

import (
	"time"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

// MonthCellCap is the number of events shown inline per month-grid cell
// before collapsing into a "+N more" indicator.
const MonthCellCap = 3

// HourBucket groups a day's events under the hour their start time falls in.
type HourBucket struct {
	Hour   int            `json:"hour"`
	Events []models.Event `json:"events"`
}

// DayView is one calendar day bucketed by hour. Hours always holds 24
// entries so renderers can lay out the full grid without special cases.
type DayView struct {
	Date    string       `json:"date"`
	IsToday bool         `json:"is_today"`
	Hours   []HourBucket `json:"hours"`
	Total   int          `json:"total"`
}

// WeekView is the Sunday-started week containing the reference date.
type WeekView struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      []DayView `json:"days"`
}

// MonthCell is one cell of the month grid, capped at MonthCellCap inline
// events with the remainder reported as overflow.
type MonthCell struct {
	Date     string         `json:"date"`
	InMonth  bool           `json:"in_month"`
	IsToday  bool           `json:"is_today"`
	Events   []models.Event `json:"events"`
	Overflow int            `json:"overflow"`
	Total    int            `json:"total"`
}

// MonthView is the full month grid including the leading and trailing days
// needed to complete whole weeks.
type MonthView struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Weeks [][]MonthCell `json:"weeks"`
}

// Day projects the events that fall on the reference date, bucketed by the
// hour portion of their start time.
func Day(events []models.Event, enabledSources map[string]struct{}, reference, now time.Time) DayView {
	visible := Visible(events, enabledSources)
	view := DayView{
		Date:    reference.Format(DateLayout),
		IsToday: reference.Format(DateLayout) == now.Format(DateLayout),
		Hours:   make([]HourBucket, 24),
	}
	for h := range view.Hours {
		view.Hours[h] = HourBucket{Hour: h, Events: []models.Event{}}
	}
	for _, event := range visible {
		if !sameDay(event.Date, reference) {
			continue
		}
		hour := HourOf(event.StartTime)
		if hour < 0 {
			continue
		}
		view.Hours[hour].Events = append(view.Hours[hour].Events, event)
		view.Total++
	}
	for h := range view.Hours {
		sortByStartTime(view.Hours[h].Events)
	}
	return view
}

// Week projects the seven days of the Sunday-started week containing the
// reference date.
func Week(events []models.Event, enabledSources map[string]struct{}, reference, now time.Time) WeekView {
	start := WeekStart(reference)
	view := WeekView{
		StartDate: start.Format(DateLayout),
		EndDate:   start.AddDate(0, 0, 6).Format(DateLayout),
		Days:      make([]DayView, 0, 7),
	}
	for i := 0; i < 7; i++ {
		view.Days = append(view.Days, Day(events, enabledSources, start.AddDate(0, 0, i), now))
	}
	return view
}

// Month projects the displayed month grid: all days of the month plus the
// leading/trailing days filling complete weeks, each cell capped at
// MonthCellCap inline events.
func Month(events []models.Event, enabledSources map[string]struct{}, reference, now time.Time) MonthView {
	visible := Visible(events, enabledSources)

	byDate := make(map[string][]models.Event)
	for _, event := range visible {
		byDate[event.Date] = append(byDate[event.Date], event)
	}
	for date := range byDate {
		sortByStartTime(byDate[date])
	}

	monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := WeekStart(monthStart)
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	today := now.Format(DateLayout)

	view := MonthView{Year: reference.Year(), Month: int(reference.Month())}
	var week []MonthCell
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		cellEvents := byDate[date]
		cell := MonthCell{
			Date:    date,
			InMonth: day.Month() == reference.Month(),
			IsToday: date == today,
			Total:   len(cellEvents),
		}
		if len(cellEvents) > MonthCellCap {
			cell.Events = append([]models.Event{}, cellEvents[:MonthCellCap]...)
			cell.Overflow = len(cellEvents) - MonthCellCap
		} else {
			cell.Events = append([]models.Event{}, cellEvents...)
		}
		week = append(week, cell)
		if len(week) == 7 {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
	}
	return view
}
