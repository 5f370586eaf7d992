// Package config defines defaults, validation, and file loading for scanner
// configuration, including the injectable risk-model tuning tables.
package config
