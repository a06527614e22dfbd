// Package aggregates implements the domain aggregate contracts on top of the
// table repos. Every write method runs inside one transaction opened here.
package aggregates
