// Package app provides the application service layer.
//
// Journal orchestrates entry use cases: validate, classify, persist, update the mood index,
// invalidate cached insights and publish a fresh summary. RolloverTicker republishes at midnight.
// Depends on domain interfaces, not concrete adapters.
package app
