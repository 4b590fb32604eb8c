// Package config defines the relay's configuration model and the YAML
// loader that populates it.
//
// Configuration is loaded in three layers, later layers winning:
//
//  1. Built-in defaults (ApplyDefaults)
//  2. The YAML file
//  3. Environment variables (RELAY_SECTION_FIELD, plus a handful of legacy
//     names the dashboard deployments already set)
//
// The final configuration is validated as a whole; validation collects
// every field error instead of stopping at the first one.
package config
