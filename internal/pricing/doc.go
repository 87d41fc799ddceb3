// Package pricing computes purchase-invoice line amounts and bill totals.
//
// Everything here is pure arithmetic over plain values: no I/O, no logging,
// no errors. Missing or malformed numeric input is treated as zero.
package pricing
