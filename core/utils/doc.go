// Package utils provides small parsing helpers shared by HTTP handlers and commands.
package utils
