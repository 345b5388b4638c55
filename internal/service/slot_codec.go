package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/noah-isme/timetable-api/internal/models"
)

// weekDays and periodsPerDay define the fixed calendar the solver's slot
// ordinals are laid out on.
var weekDays = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

const periodsPerDay = 6

// SlotPosition is a decoded (day, period) pair.
type SlotPosition struct {
	Day      string
	DayIndex int
	Period   int
}

// Key renders the grid key "{day}-P{period}".
func (p SlotPosition) Key() string {
	return fmt.Sprintf("%s-P%d", p.Day, p.Period)
}

// WeekSlots is the number of ordinals in the standard week.
func WeekSlots() int {
	return len(weekDays) * periodsPerDay
}

// DecodeOrdinal maps a 1-based ordinal onto the week. ok is false outside
// [1, WeekSlots()].
func DecodeOrdinal(n int) (SlotPosition, bool) {
	if n < 1 || n > WeekSlots() {
		return SlotPosition{}, false
	}
	dayIndex := (n - 1) / periodsPerDay
	return SlotPosition{
		Day:      weekDays[dayIndex],
		DayIndex: dayIndex,
		Period:   (n-1)%periodsPerDay + 1,
	}, true
}

// DecodeSlot decodes a slot identifier such as "S7" or "7".
func DecodeSlot(id string) (SlotPosition, bool) {
	digits := strings.TrimLeftFunc(strings.TrimSpace(id), unicode.IsLetter)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return SlotPosition{}, false
	}
	return DecodeOrdinal(n)
}

// EncodeSlot is the inverse of DecodeSlot.
func EncodeSlot(day string, period int) (string, bool) {
	if period < 1 || period > periodsPerDay {
		return "", false
	}
	for i, d := range weekDays {
		if sameDay(day, d) {
			return "S" + strconv.Itoa(i*periodsPerDay+period), true
		}
	}
	return "", false
}

// SlotDrift describes a catalog row whose day or period disagrees with the
// ordinal encoded in its id.
type SlotDrift struct {
	SlotID        string
	CatalogDay    string
	CatalogPeriod int
	// CodecKey is empty when the id does not decode at all.
	CodecKey string
}

// CatalogDrift compares catalog rows with the codec. Day names match on a
// case-insensitive prefix so "Monday" agrees with "Mon".
func CatalogDrift(slots []models.Slot) []SlotDrift {
	drift := make([]SlotDrift, 0)
	for _, slot := range slots {
		pos, ok := DecodeSlot(slot.ID)
		if ok && sameDay(slot.Day, pos.Day) && slot.Period == pos.Period {
			continue
		}
		entry := SlotDrift{SlotID: slot.ID, CatalogDay: slot.Day, CatalogPeriod: slot.Period}
		if ok {
			entry.CodecKey = pos.Key()
		}
		drift = append(drift, entry)
	}
	return drift
}

func sameDay(name, short string) bool {
	name = strings.TrimSpace(name)
	if len(name) < len(short) {
		return false
	}
	return strings.EqualFold(name[:len(short)], short)
}
