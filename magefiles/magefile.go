//go:build mage

// Package main provides build targets for the shelf project using Mage.
//
// Usage:
//
//	mage build          Compile the shelf binary to bin/
//	mage test:all       Run every test
//	mage test:cover     Run tests with a coverage profile in bin/
//	mage test:race      Run tests with the race detector
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install shelf to GOPATH/bin
//	mage stats          Print Go line counts per package
package main
