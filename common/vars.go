// Package common holds identity and logging helpers shared by every binary
// in this repository.
package common

// PackageName is used as the service identifier for metrics and logging.
const PackageName = "ntt-registry-backend"

// Version is set at build time through -ldflags.
var Version = "dev"
