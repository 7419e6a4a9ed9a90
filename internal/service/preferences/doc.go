// Package preferences stores the companion mode each user last chose.
package preferences
