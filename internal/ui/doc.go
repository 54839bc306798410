// Package ui renders repository status reports for terminals and machine consumers.
package ui
