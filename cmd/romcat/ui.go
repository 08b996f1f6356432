package main

import (
	"fmt"
	"strings"

	"romcat/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func themeColor(pick func(*config.Config) string, fallback string) lipgloss.Style {
	c := fallback
	if cfg != nil && pick(cfg) != "" {
		c = pick(cfg)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func successText(s string) string {
	return themeColor(func(c *config.Config) string { return c.Theme.Success }, "114").Render(s)
}

func errorText(s string) string {
	return themeColor(func(c *config.Config) string { return c.Theme.Error }, "196").Render(s)
}

func warningText(s string) string {
	return themeColor(func(c *config.Config) string { return c.Theme.Warning }, "220").Render(s)
}

func infoText(s string) string {
	return themeColor(func(c *config.Config) string { return c.Theme.Info }, "39").Render(s)
}

func primaryText(s string) string {
	return themeColor(func(c *config.Config) string { return c.Theme.Primary }, "213").Bold(true).Render(s)
}

func printSuccess(message string) { fmt.Println(successText("✓ " + message)) }
func printError(message string)   { fmt.Println(errorText("✗ " + message)) }
func printWarning(message string) { fmt.Println(warningText("! " + message)) }
func printInfo(message string)    { fmt.Println(infoText("ℹ " + message)) }

func printHeader(message string) {
	fmt.Println("\n" + primaryText(message))
	fmt.Println(strings.Repeat("─", lipgloss.Width(message)))
}
