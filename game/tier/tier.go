// Package tier maps a result percentage to a display tier.
package tier

// Level is a display tier for a percentage result
type Level string

const (
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// For returns the tier for percentage: 80 and above is Success, 50 and above
// is Warning, anything lower is Error.
func For(percentage int) Level {
	switch {
	case percentage >= 80:
		return Success
	case percentage >= 50:
		return Warning
	default:
		return Error
	}
}
