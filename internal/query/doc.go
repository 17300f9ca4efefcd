// Package query narrows, orders and pages trail collections. Every function
// is pure: inputs are never modified and identical inputs give identical
// results.
package query
