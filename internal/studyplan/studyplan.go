package studyplan

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"edupulse/internal/api"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

var hourPattern = regexp.MustCompile(`jam (\d{1,2})`)

// StartHour extracts the suggested hour from the backend's free-text
// optimal time ("Pagi Hari (Sekitar jam 8:00)"). Falls back to 8 when
// the text carries no hour.
func StartHour(optimalTime string) int {
	m := hourPattern.FindStringSubmatch(optimalTime)
	if m == nil {
		return 8
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 0 || hour > 23 {
		return 8
	}
	return hour
}

// NextSession returns the next occurrence of the recommended study
// hour: tomorrow, at the extracted hour, local time.
func NextSession(optimalTime string, now time.Time) time.Time {
	hour := StartHour(optimalTime)
	day := now.AddDate(0, 0, 1)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
}

// WriteICS saves a recommendation result as a two-hour study session
// event, so the student can drop it into any calendar app.
func WriteICS(rec *api.Recommendation, studentID int, path string) error {
	start := NextSession(rec.OptimalTime, time.Now())

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//edupulse//studyplan//ID")

	event := cal.AddEvent(uuid.NewString())
	event.SetCreatedTime(time.Now())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(2 * time.Hour))
	event.SetSummary(fmt.Sprintf("Sesi Belajar: %s", rec.WeakSubject))
	event.SetDescription(fmt.Sprintf(
		"Mahasiswa %d\nStrategi: %s\nJadwal optimal: %s\n\n%s",
		studentID, rec.Strategy, rec.OptimalTime, rec.Tips,
	))

	return os.WriteFile(path, []byte(cal.Serialize()), 0644)
}
