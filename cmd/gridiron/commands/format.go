package commands

import "fmt"

// Common formatting utilities so every command prints the same way.

// PrintSeparator prints a section separator.
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintKV prints an aligned key/value line.
func PrintKV(key string, value interface{}) {
	fmt.Printf("  %-14s: %v\n", key, value)
}

// PrintHeader prints a command header.
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}
