// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides the capturing slog handler and the
// sample calculator inputs the package tests share.
package shared
