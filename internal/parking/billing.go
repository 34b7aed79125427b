package parking

import "time"

const millisPerHour = int64(time.Hour / time.Millisecond)

type Bill struct {
	Hours       int64
	TotalAmount float64
}

// Calculate bills elapsed wall time in whole hours, rounding any partial hour
// up. Parking and EV charging share the same hour count. A zero-length
// interval bills zero hours.
func Calculate(start, end time.Time, ratePerHour, evRatePerHour float64, evUsed bool) (Bill, error) {
	elapsedMs := end.UnixMilli() - start.UnixMilli()
	if elapsedMs < 0 {
		return Bill{}, ErrInvalidInterval
	}

	hours := (elapsedMs + millisPerHour - 1) / millisPerHour

	total := float64(hours) * ratePerHour
	if evUsed {
		total += float64(hours) * evRatePerHour
	}

	return Bill{Hours: hours, TotalAmount: total}, nil
}
