// Package ui implements the interactive now-playing dashboard using
// bubbletea's Elm architecture.
//
// The dashboard shows one colored card per channel with its live song and
// recent history, a text filter that narrows cards by channel, title or
// artist as you type, and a refresh action that triggers a fresh
// aggregation pass. Keyboard bindings: r refresh, f focus filter, esc leave
// filter, j/k scroll, q quit.
package ui
