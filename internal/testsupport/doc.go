// Package testsupport holds fixtures shared by package tests: a temp-dir
// config builder, catalog file helpers, and fake metadata resolvers.
package testsupport
