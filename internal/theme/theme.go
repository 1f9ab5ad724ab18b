package theme

import "github.com/charmbracelet/lipgloss"

// rt palette, built around the R logo blue and gray
var (
	Primary   = lipgloss.Color("#276dc3") // R blue
	Secondary = lipgloss.Color("#9fa8b5") // Logo ring gray
	Accent    = lipgloss.Color("#1e4f8f") // Deep blue

	// Semantic colors
	Success = lipgloss.Color("#00d26a")
	Error   = lipgloss.Color("#ff3b30")
	Warning = lipgloss.Color("#ffcc00")
	Info    = lipgloss.Color("#5ac8fa")

	Text      = lipgloss.Color("#ffffff")
	TextFaint = lipgloss.Color("#8e8e93")
	Border    = lipgloss.Color("#276dc3")

	Highlight = lipgloss.Color("#75aadb") // Light R blue
)

var (
	Title = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Underline(true)

	Subtitle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	Faint = lipgloss.NewStyle().
		Foreground(TextFaint).
		Faint(true)

	Code = lipgloss.NewStyle().
		Foreground(Highlight)

	// Marks the default installation in listings
	CurrentStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(Info)

	SuccessBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(1, 3).
			Align(lipgloss.Center)

	TableStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Border)

	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Padding(0, 1)
)

// SuccessMessage returns a formatted success message
func SuccessMessage(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// ErrorMessage returns a formatted error message
func ErrorMessage(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// WarningMessage returns a formatted warning message
func WarningMessage(msg string) string {
	return WarningStyle.Render("⚠ " + msg)
}

// InfoMessage returns a formatted info message
func InfoMessage(msg string) string {
	return InfoStyle.Render("ℹ " + msg)
}
