// Package config loads lazyops settings from LAZYOPS_* environment
// variables.
//
// Values may reference other variables with ${VAR}. Expansion is strict:
// a referenced variable that is not set is an error rather than an empty
// string, so a DSN like postgres://app:${PGPASSWORD}@db/app fails loudly
// when the password is missing. Use $$ for a literal dollar sign.
package config
