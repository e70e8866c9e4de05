package model

import "fmt"

// FormatSeconds formata uma duração em segundos no estilo do Jira
// ("8h", "3h 30m", "45m"). Valores negativos são tratados como zero.
func FormatSeconds(total int64) string {
	if total <= 0 {
		return "0h"
	}

	hours := total / 3600
	minutes := (total % 3600) / 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", total)
	}
}

// FormatHours formata uma duração em segundos como horas decimais ("12.5h")
func FormatHours(total int64) string {
	if total <= 0 {
		return "0h"
	}
	return fmt.Sprintf("%.2fh", float64(total)/3600)
}
