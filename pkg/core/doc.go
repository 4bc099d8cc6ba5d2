// Package core defines the shared language of the launch dashboard.
//
// This package contains:
//   - Domain entities (LaunchRecord, SiteOption, PayloadRange)
//   - Chart specifications produced by the derivation engine
//   - Source configuration shared by every dataset source
//   - Load errors and their sentinel causes
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
