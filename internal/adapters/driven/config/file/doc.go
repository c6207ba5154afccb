// Package file keeps configuration on the local filesystem: the TOML
// config store and the prompt store that seeds user-editable template
// files from embedded defaults.
package file
