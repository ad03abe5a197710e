// Package exporter persists a reporting run as CSV tables plus a JSON
// summary, and renders short console previews of each table. It owns all
// display formatting; the analytics packages hand it typed rows only.
package exporter
