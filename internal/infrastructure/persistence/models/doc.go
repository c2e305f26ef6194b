// Package models contains GORM persistence models and their conversions
// to and from domain entities. Domain entities stay free of persistence
// concerns; every model knows how to map itself both ways.
package models
