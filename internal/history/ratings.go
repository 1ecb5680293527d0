package history

import "github.com/thomhuang/happycamper/internal/model"

// NoRating is the average reported when nothing has been rated yet.
const NoRating = -1.0

// AverageStars averages the star ratings that carry stars.
func AverageStars(ratings []model.Rating) float64 {
	sum, count := 0, 0
	for _, r := range ratings {
		if r.Stars > 0 {
			sum += r.Stars
			count++
		}
	}
	if count == 0 {
		return NoRating
	}
	return float64(sum) / float64(count)
}

// FormatPhone renders a ten digit phone number as (xxx) xxx-xxxx. Anything
// else is returned unchanged.
func FormatPhone(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	return "(" + phone[0:3] + ") " + phone[3:6] + "-" + phone[6:10]
}
