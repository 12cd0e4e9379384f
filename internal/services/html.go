package services

import (
	"html"
	"strings"
)

// Replies are sent with the HTML parse mode, so every piece of user text
// goes through Escape or one of the wrappers below.

func Escape(text string) string {
	return html.EscapeString(text)
}

func FormatBold(text string) string {
	return "<b>" + Escape(text) + "</b>"
}

func FormatItalic(text string) string {
	return "<i>" + Escape(text) + "</i>"
}

func FormatCode(text string) string {
	return "<pre>" + Escape(text) + "</pre>"
}

// FormatQuote renders text as a Telegram block quote.
func FormatQuote(text string) string {
	return "<blockquote>" + Escape(strings.TrimSpace(text)) + "</blockquote>"
}
