// Package dnsutil holds DNS name and content helpers shared by the
// record mutation paths. Names follow the PowerDNS storage convention:
// lower case, no trailing dot.
package dnsutil

import "strings"

// RestoreZoneSuffix expands a record name relative to its zone.
//
//   - ("@", "example.com")                -> "example.com"
//   - ("", "example.com")                 -> "example.com"
//   - ("www", "example.com")              -> "www.example.com"
//   - ("www.example.com", "example.com")  -> "www.example.com"
func RestoreZoneSuffix(name, zone string) string {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
	zone = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(zone)), ".")
	switch {
	case name == "" || name == "@":
		return zone
	case name == zone || strings.HasSuffix(name, "."+zone):
		return name
	default:
		return name + "." + zone
	}
}

// StripZoneSuffix shortens a stored FQDN for display, the inverse of
// RestoreZoneSuffix. The zone apex becomes "@".
func StripZoneSuffix(fqdn, zone string) string {
	fqdn = strings.TrimSuffix(strings.ToLower(fqdn), ".")
	zone = strings.TrimSuffix(strings.ToLower(zone), ".")
	if fqdn == zone {
		return "@"
	}
	return strings.TrimSuffix(fqdn, "."+zone)
}
