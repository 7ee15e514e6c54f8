package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case "success":
		return colorSuccess(status)
	case "partial", "skipped":
		return colorWarn(status)
	case "error":
		return colorError(status)
	default:
		return status
	}
}

func formatGradeWithColor(grade string) string {
	switch grade {
	case "A", "B":
		return colorSuccess(grade)
	case "C", "D":
		return colorWarn(grade)
	case "F":
		return colorError(grade)
	default:
		return grade
	}
}
