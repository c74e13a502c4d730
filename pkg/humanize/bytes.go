// Package humanize форматирует количество байтов в человекочитаемый вид.
package humanize

import "fmt"

var units = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

// Bytes возвращает размер с шагом 1024 и одним знаком после запятой:
// 512 -> "512.0 B", 1536 -> "1.5 KiB".
func Bytes(v int64) string {
	value := float64(v)
	if value < 1024 {
		return fmt.Sprintf("%.1f B", value)
	}

	unit := 0
	value /= 1024
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
