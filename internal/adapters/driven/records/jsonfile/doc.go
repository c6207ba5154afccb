// Package jsonfile loads knowledge records from JSON seed files.
// Each seed file holds one JSON array of records for a single
// category; field shapes differ per category.
package jsonfile
