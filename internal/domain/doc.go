// Package domain contains the core entities of the note cleaning service
// and their validation rules. Domain types carry no persistence or
// transport concerns.
package domain
