// Package config manages the adcert configuration file.
//
// The configuration lives at ~/.config/adcert/config.yaml and holds the
// appliance connection settings (address, user, ssh key, certificate
// directory) and the acme.sh collaborator settings (script location,
// certificate storage roots, default key length).
//
// Load returns defaults when no config file exists yet:
//
//	device:
//	  user: nsroot
//	  cert_dir: /nsconfig/ssl
//	acme:
//	  key_length: ec-256
//
// The appliance address has no default and must be configured before any
// device-facing command runs; Validate enforces this.
package config
