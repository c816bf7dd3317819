// Package main provides the entry point of GoBazaar, the marketplace admin service.
// It serves a JSON API over the catalog of categories, brands and models and guards every
// admin operation with roles: named, mutable sets of access types assigned to users.
// Run "gobazaar start" to serve, "gobazaar role" to manage roles from the shell.
package main
