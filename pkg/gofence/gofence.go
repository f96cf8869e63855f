// Package gofence exports the gofence Analyzer.
package gofence

import internal "github.com/google/go-api-fence/internal/pkg/gofence"

// Analyzer reports uses of deny-listed APIs.
var Analyzer = internal.Analyzer
