// Package summary renders documentation Markdown for overview pages.
//
// RichText keeps the full HTML rendering; PlainText strips markup and cuts
// the text to MaxLength runes.
package summary
