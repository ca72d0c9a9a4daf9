package utils

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// MessageType defines the type of message box to render.
type MessageType int

const (
	// InfoMessage represents an informational message.
	InfoMessage MessageType = iota
	// SuccessMessage represents a success message.
	SuccessMessage
	// WarningMessage represents a warning message.
	WarningMessage
	// ErrorMessage represents an error message.
	ErrorMessage
)

const (
	infoPrefix    = "ℹ"
	successPrefix = "✓"
	warningPrefix = "⚠"
	errorPrefix   = "✗"
)

var (
	infoColor    = lipgloss.Color("86")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("178")
	errorColor   = lipgloss.Color("196")
)

// minBoxWidth keeps boxes readable on very narrow terminals
const minBoxWidth = 20

// Box is a builder for creating formatted message boxes.
type Box struct {
	messageType MessageType
	title       string
	content     []string
	width       int
}

// NewBox creates a new message box sized to the terminal.
func NewBox(messageType MessageType, title string) *Box {
	return &Box{
		messageType: messageType,
		title:       title,
		content:     []string{},
		width:       getTerminalWidth() - 8,
	}
}

// WithWidth overrides the maximum outer width of the box.
func (b *Box) WithWidth(width int) *Box {
	b.width = width
	return b
}

// AddLine adds a line of text to the message box content.
func (b *Box) AddLine(text string) *Box {
	b.content = append(b.content, text)
	return b
}

// AddBullet adds a bulleted line to the message box content.
func (b *Box) AddBullet(text string) *Box {
	b.content = append(b.content, fmt.Sprintf("• %s", text))
	return b
}

// AddField adds a "key: value" line.
func (b *Box) AddField(key string, value interface{}) *Box {
	b.content = append(b.content, fmt.Sprintf("%s: %v", key, value))
	return b
}

// Render builds and returns the formatted message box as a string.
func (b *Box) Render() string {
	color, prefix := b.colorAndPrefix()

	width := b.width
	if width < minBoxWidth {
		width = minBoxWidth
	}
	// border and padding take two columns on each side
	contentWidth := width - 4

	var lines []string
	for _, line := range append([]string{prefix + " " + b.title}, b.content...) {
		if utf8.RuneCountInString(line) <= contentWidth {
			lines = append(lines, line)
		} else {
			lines = append(lines, wrapText(line, contentWidth)...)
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(lines[0])
	body := strings.Join(append([]string{title}, lines[1:]...), "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(body)
}

func (b *Box) colorAndPrefix() (lipgloss.Color, string) {
	switch b.messageType {
	case SuccessMessage:
		return successColor, successPrefix
	case WarningMessage:
		return warningColor, warningPrefix
	case ErrorMessage:
		return errorColor, errorPrefix
	default:
		return infoColor, infoPrefix
	}
}

// Convenience functions for creating and rendering message boxes.

func Info(title string, lines ...string) string {
	return newBoxWithLines(InfoMessage, title, lines).Render()
}

func Success(title string, lines ...string) string {
	return newBoxWithLines(SuccessMessage, title, lines).Render()
}

func Warning(title string, lines ...string) string {
	return newBoxWithLines(WarningMessage, title, lines).Render()
}

func Error(title string, lines ...string) string {
	return newBoxWithLines(ErrorMessage, title, lines).Render()
}

func newBoxWithLines(messageType MessageType, title string, lines []string) *Box {
	box := NewBox(messageType, title)
	for _, line := range lines {
		box.AddLine(line)
	}
	return box
}

// getTerminalWidth returns the terminal width or defaults to 80 if unable to detect.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// wrapText wraps text on word boundaries. Words longer than maxWidth are
// split.
func wrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current []rune
	for _, word := range words {
		w := []rune(word)
		for len(w) > maxWidth {
			if len(current) > 0 {
				lines = append(lines, string(current))
				current = nil
			}
			lines = append(lines, string(w[:maxWidth]))
			w = w[maxWidth:]
		}
		if len(w) == 0 {
			continue
		}

		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= maxWidth:
			current = append(append(current, ' '), w...)
		default:
			lines = append(lines, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
