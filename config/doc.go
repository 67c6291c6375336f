// Package config loads the EasyLog configuration.
//
// Settings come from a TOML file (easylog.toml in the working directory or
// ~/.config/easylog/config.toml), layered over Default and overridden by
// EASYLOG_* environment variables. Load validates the result; validation
// failures wrap ErrInvalid.
package config
